// Package pptx reads and writes the parts of a PresentationML package that slide
// generation needs: slide layouts of the first master, the placeholders they
// declare, and new slides cloned from them.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotPresentation is returned when the bytes are not a presentation package.
var ErrNotPresentation = errors.New("pptx: not a presentation package")

const (
	contentTypesPart = "[Content_Types].xml"
	rootRelsPart     = "_rels/.rels"

	nsMain          = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relTypeSlide  = nsRelationships + "/slide"
	relTypeLayout = nsRelationships + "/slideLayout"

	contentTypeSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	contentTypeTemplateMain = "application/vnd.openxmlformats-officedocument.presentationml.template.main+xml"
	contentTypePresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
)

// Package is an in-memory presentation package. It is not safe for concurrent use.
type Package struct {
	parts    map[string][]byte
	order    []string
	presPath string

	layouts    []*Layout
	byPath     map[string]*Layout
	slides     []*Slide
	maxSlideID uint64
}

// Open parses a .pptx or .potx package held in memory.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	p := &Package{
		parts:  make(map[string][]byte, len(zr.File)),
		byPath: make(map[string]*Layout),
	}
	for _, f := range zr.File {
		if _, dup := p.parts[f.Name]; dup {
			continue
		}
		b, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrNotPresentation, f.Name, err)
		}
		p.parts[f.Name] = b
		p.order = append(p.order, f.Name)
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	if f.FileInfo().IsDir() {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Package) load() error {
	presPath, err := p.findPresentation()
	if err != nil {
		return err
	}
	p.presPath = presPath

	var pres xmlPresentation
	if err := p.decode(presPath, &pres); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	presRels, err := p.relationships(presPath)
	if err != nil {
		return err
	}

	for i, ref := range pres.Masters {
		masterPath, ok := presRels[ref.RID]
		if !ok {
			return fmt.Errorf("%w: slide master %s has no relationship", ErrNotPresentation, ref.RID)
		}
		layouts, err := p.loadMaster(masterPath)
		if err != nil {
			return err
		}
		// Only the first master's layouts are offered for new slides.
		if i == 0 {
			p.layouts = layouts
		}
	}

	for _, ref := range pres.Slides {
		if id := parseUint(ref.ID); id > p.maxSlideID {
			p.maxSlideID = id
		}
		slidePath, ok := presRels[ref.RID]
		if !ok {
			continue
		}
		s, err := p.loadSlide(slidePath)
		if err != nil {
			return err
		}
		p.slides = append(p.slides, s)
	}
	return nil
}

func (p *Package) findPresentation() (string, error) {
	if _, ok := p.parts[rootRelsPart]; ok {
		var rels xmlRelationships
		if err := p.decode(rootRelsPart, &rels); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotPresentation, err)
		}
		for _, r := range rels.Relationships {
			if strings.HasSuffix(r.Type, "/officeDocument") {
				target := resolveTarget("", r.Target)
				if _, ok := p.parts[target]; ok {
					return target, nil
				}
			}
		}
	}
	if _, ok := p.parts["ppt/presentation.xml"]; ok {
		return "ppt/presentation.xml", nil
	}
	return "", fmt.Errorf("%w: no presentation part", ErrNotPresentation)
}

func (p *Package) loadMaster(masterPath string) ([]*Layout, error) {
	var master xmlMaster
	if err := p.decode(masterPath, &master); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	rels, err := p.relationships(masterPath)
	if err != nil {
		return nil, err
	}
	layouts := make([]*Layout, 0, len(master.Layouts))
	for _, ref := range master.Layouts {
		layoutPath, ok := rels[ref.RID]
		if !ok {
			return nil, fmt.Errorf("%w: slide layout %s has no relationship", ErrNotPresentation, ref.RID)
		}
		l, err := p.loadLayout(layoutPath)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

// decode unmarshals an XML part.
func (p *Package) decode(name string, v any) error {
	b, ok := p.parts[name]
	if !ok {
		return fmt.Errorf("missing part %s", name)
	}
	if err := xml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// relationships returns the internal relationships of a part keyed by id, with
// targets resolved to package paths. A part without a rels part has none.
func (p *Package) relationships(source string) (map[string]string, error) {
	relsPath := relsPathFor(source)
	if _, ok := p.parts[relsPath]; !ok {
		return map[string]string{}, nil
	}
	var rels xmlRelationships
	if err := p.decode(relsPath, &rels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	out := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		if strings.EqualFold(r.TargetMode, "External") {
			continue
		}
		out[r.ID] = resolveTarget(source, r.Target)
	}
	return out, nil
}

func relsPathFor(part string) string {
	if part == "" {
		return rootRelsPart
	}
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// relativeTarget expresses target relative to the directory of source.
func relativeTarget(source, target string) string {
	from := strings.Split(path.Dir(source), "/")
	to := strings.Split(target, "/")
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var b strings.Builder
	for range from[i:] {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[i:], "/"))
	return b.String()
}

// Layouts returns the layouts of the first slide master in declaration order.
func (p *Package) Layouts() []*Layout {
	out := make([]*Layout, len(p.layouts))
	copy(out, p.layouts)
	return out
}

// Layout returns the layout with the given name. When names repeat, the last one wins.
func (p *Package) Layout(name string) (*Layout, bool) {
	var found *Layout
	for _, l := range p.layouts {
		if l.name == name {
			found = l
		}
	}
	return found, found != nil
}

// Slides returns the slides of the package in presentation order, including those
// added with AddSlide.
func (p *Package) Slides() []*Slide {
	out := make([]*Slide, len(p.slides))
	copy(out, p.slides)
	return out
}
