package pptx

import "fmt"

// Placeholder types that are never cloned onto a new slide.
var uncloned = map[string]bool{
	"dt":     true,
	"ftr":    true,
	"sldNum": true,
}

// Layout is a slide layout of the template.
type Layout struct {
	name         string
	path         string
	placeholders []placeholderDef
}

type placeholderDef struct {
	kind   string
	orient string
	size   string
	idx    string
}

// Name returns the layout name as declared by the template.
func (l *Layout) Name() string { return l.name }

func (p *Package) loadLayout(layoutPath string) (*Layout, error) {
	if l, ok := p.byPath[layoutPath]; ok {
		return l, nil
	}
	var doc xmlSlideDoc
	if err := p.decode(layoutPath, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	l := &Layout{name: doc.CSld.Name, path: layoutPath}
	for _, sp := range doc.CSld.Shapes {
		ph := sp.NvSpPr.NvPr.Ph
		if ph == nil {
			continue
		}
		l.placeholders = append(l.placeholders, placeholderDef{
			kind:   placeholderType(ph.Type),
			orient: ph.Orient,
			size:   ph.Size,
			idx:    ph.Idx,
		})
	}
	p.byPath[layoutPath] = l
	return l, nil
}

func placeholderType(t string) string {
	if t == "" {
		return "obj"
	}
	return t
}

// placeholderBaseName mirrors the names PowerPoint gives placeholders it copies
// from a layout, e.g. "Title 1" or "Content Placeholder 2".
func placeholderBaseName(kind, orient string) string {
	var base string
	switch kind {
	case "title", "ctrTitle":
		base = "Title"
	case "subTitle":
		base = "Subtitle"
	case "body":
		base = "Text Placeholder"
	case "obj":
		base = "Content Placeholder"
	case "pic":
		base = "Picture Placeholder"
	case "chart":
		base = "Chart Placeholder"
	case "tbl":
		base = "Table Placeholder"
	case "dgm":
		base = "SmartArt Placeholder"
	case "media":
		base = "Media Placeholder"
	case "clipArt":
		base = "ClipArt Placeholder"
	case "sldImg":
		base = "Slide Image Placeholder"
	case "hdr":
		base = "Header Placeholder"
	case "dt":
		base = "Date Placeholder"
	case "ftr":
		base = "Footer Placeholder"
	case "sldNum":
		base = "Slide Number Placeholder"
	default:
		base = "Placeholder"
	}
	if orient == "vert" {
		return "Vertical " + base
	}
	return base
}

// hasTextBody reports whether a cloned placeholder starts with a text body.
func hasTextBody(kind string) bool {
	switch kind {
	case "title", "ctrTitle", "subTitle", "body", "obj":
		return true
	}
	return false
}
