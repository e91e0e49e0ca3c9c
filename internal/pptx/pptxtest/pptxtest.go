// Package pptxtest builds small in-memory presentation templates for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

const (
	header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	relsNS  = `http://schemas.openxmlformats.org/package/2006/relationships`
	relBase = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/`
	ctBase  = `application/vnd.openxmlformats-officedocument.presentationml.`
)

// Placeholder describes a placeholder shape of a layout.
type Placeholder struct {
	Type string // "" means obj
	Idx  int
}

// Layout describes a slide layout.
type Layout struct {
	Name         string
	Placeholders []Placeholder
}

// Slide is a slide already present in the template.
type Slide struct {
	Layout int // index into Builder.Layouts
	Title  string
}

// Builder assembles a minimal package: one master, its layouts and optional slides.
type Builder struct {
	Layouts []Layout
	Slides  []Slide
	// AsTemplate marks the main part with the .potx content type.
	AsTemplate bool
}

// DefaultLayouts mirrors the first layouts of the stock Office theme.
func DefaultLayouts() []Layout {
	footer := []Placeholder{{Type: "dt", Idx: 10}, {Type: "ftr", Idx: 11}, {Type: "sldNum", Idx: 12}}
	with := func(ph ...Placeholder) []Placeholder { return append(ph, footer...) }
	return []Layout{
		{Name: "Title Slide", Placeholders: with(Placeholder{Type: "ctrTitle"}, Placeholder{Type: "subTitle", Idx: 1})},
		{Name: "Title and Content", Placeholders: with(Placeholder{Type: "title"}, Placeholder{Idx: 1})},
		{Name: "Section Header", Placeholders: with(Placeholder{Type: "title"}, Placeholder{Type: "body", Idx: 1})},
		{Name: "Title Only", Placeholders: with(Placeholder{Type: "title"})},
		{Name: "Blank", Placeholders: footer},
	}
}

// Default returns a template with DefaultLayouts and no slides.
func Default() []byte {
	return MustBuild(Builder{Layouts: DefaultLayouts()})
}

// MustBuild is Build that panics on error.
func MustBuild(b Builder) []byte {
	out, err := b.Build()
	if err != nil {
		panic(err)
	}
	return out
}

// Build writes the package.
func (b Builder) Build() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range b.parts() {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type part struct {
	name string
	body string
}

func (b Builder) parts() []part {
	mainType := ctBase + "presentation.main+xml"
	if b.AsTemplate {
		mainType = ctBase + "template.main+xml"
	}

	var ct strings.Builder
	ct.WriteString(header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	ct.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	ct.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	fmt.Fprintf(&ct, `<Override PartName="/ppt/presentation.xml" ContentType="%s"/>`, mainType)
	fmt.Fprintf(&ct, `<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="%sslideMaster+xml"/>`, ctBase)
	for i := range b.Layouts {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slideLayouts/slideLayout%d.xml" ContentType="%sslideLayout+xml"/>`, i+1, ctBase)
	}
	for i := range b.Slides {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="%sslide+xml"/>`, i+1, ctBase)
	}
	ct.WriteString(`</Types>`)

	parts := []part{
		{name: "[Content_Types].xml", body: ct.String()},
		{name: "_rels/.rels", body: rels(rel{"rId1", "officeDocument", "ppt/presentation.xml"})},
	}

	presRels := []rel{{"rId1", "slideMaster", "slideMasters/slideMaster1.xml"}}
	var sldIDs strings.Builder
	for i := range b.Slides {
		rid := fmt.Sprintf("rId%d", i+2)
		presRels = append(presRels, rel{rid, "slide", fmt.Sprintf("slides/slide%d.xml", i+1)})
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
	}
	var pres strings.Builder
	pres.WriteString(header + `<p:presentation ` + nsDecl + ` saveSubsetFonts="1">`)
	pres.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if len(b.Slides) > 0 {
		pres.WriteString(`<p:sldIdLst>` + sldIDs.String() + `</p:sldIdLst>`)
	}
	pres.WriteString(`<p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`)
	parts = append(parts,
		part{name: "ppt/presentation.xml", body: pres.String()},
		part{name: "ppt/_rels/presentation.xml.rels", body: rels(presRels...)},
	)

	var master strings.Builder
	var masterRels []rel
	master.WriteString(header + `<p:sldMaster ` + nsDecl + `><p:cSld>` + spTree(nil) + `</p:cSld><p:sldLayoutIdLst>`)
	for i := range b.Layouts {
		rid := fmt.Sprintf("rId%d", i+1)
		fmt.Fprintf(&master, `<p:sldLayoutId id="%d" r:id="%s"/>`, 2147483649+i, rid)
		masterRels = append(masterRels, rel{rid, "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1)})
	}
	master.WriteString(`</p:sldLayoutIdLst></p:sldMaster>`)
	parts = append(parts,
		part{name: "ppt/slideMasters/slideMaster1.xml", body: master.String()},
		part{name: "ppt/slideMasters/_rels/slideMaster1.xml.rels", body: rels(masterRels...)},
	)

	for i, l := range b.Layouts {
		var shapes strings.Builder
		for j, ph := range l.Placeholders {
			shapes.WriteString(placeholderShape(j+2, fmt.Sprintf("Placeholder %d", j+1), ph, "Click to edit"))
		}
		body := header + fmt.Sprintf(`<p:sldLayout %s preserve="1"><p:cSld name="%s">`, nsDecl, l.Name) +
			spTree([]string{shapes.String()}) + `</p:cSld></p:sldLayout>`
		parts = append(parts,
			part{name: fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), body: body},
			part{
				name: fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1),
				body: rels(rel{"rId1", "slideMaster", "../slideMasters/slideMaster1.xml"}),
			},
		)
	}

	for i, s := range b.Slides {
		title := placeholderShape(2, "Title 1", Placeholder{Type: "title"}, s.Title)
		body := header + `<p:sld ` + nsDecl + `><p:cSld>` + spTree([]string{title}) + `</p:cSld></p:sld>`
		parts = append(parts,
			part{name: fmt.Sprintf("ppt/slides/slide%d.xml", i+1), body: body},
			part{
				name: fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1),
				body: rels(rel{"rId1", "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", s.Layout+1)}),
			},
		)
	}
	return parts
}

type rel struct {
	id, kind, target string
}

func rels(rs ...rel) string {
	var b strings.Builder
	b.WriteString(header + `<Relationships xmlns="` + relsNS + `">`)
	for _, r := range rs {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s%s" Target="%s"/>`, r.id, relBase, r.kind, r.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func spTree(shapes []string) string {
	return `<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		strings.Join(shapes, "") + `</p:spTree>`
}

func placeholderShape(id int, name string, ph Placeholder, text string) string {
	attrs := ""
	if ph.Type != "" {
		attrs += fmt.Sprintf(` type="%s"`, ph.Type)
	}
	if ph.Idx != 0 {
		attrs += fmt.Sprintf(` idx="%d"`, ph.Idx)
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`+
		`<p:nvPr><p:ph%s/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>`+
		`<a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, id, name, attrs, text)
}
