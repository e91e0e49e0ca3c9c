package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Slide is a slide of the package. Slides read from the template are snapshots;
// only slides created with AddSlide are written back by Save.
type Slide struct {
	path   string
	layout *Layout
	shapes []*Shape
	added  bool
}

// Shape is a shape on a slide. Only text shapes (p:sp) are modelled.
type Shape struct {
	id         int
	name       string
	ph         *placeholderDef
	hasText    bool
	paragraphs []string
}

// LayoutName returns the name of the slide's layout, or "" when unknown.
func (s *Slide) LayoutName() string {
	if s.layout == nil {
		return ""
	}
	return s.layout.name
}

// Shapes returns every text shape on the slide in tree order.
func (s *Slide) Shapes() []*Shape {
	out := make([]*Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Placeholders returns the placeholder shapes of the slide in tree order.
func (s *Slide) Placeholders() []*Shape {
	var out []*Shape
	for _, sh := range s.shapes {
		if sh.ph != nil {
			out = append(out, sh)
		}
	}
	return out
}

// Name returns the shape name, e.g. "Title 1".
func (sh *Shape) Name() string { return sh.name }

// IsPlaceholder reports whether the shape inherits from a layout placeholder.
func (sh *Shape) IsPlaceholder() bool { return sh.ph != nil }

// PlaceholderType returns the placeholder type ("title", "body", "obj", ...) or "".
func (sh *Shape) PlaceholderType() string {
	if sh.ph == nil {
		return ""
	}
	return sh.ph.kind
}

// Paragraphs returns the text of each paragraph of the shape's text frame.
func (sh *Shape) Paragraphs() []string {
	out := make([]string, len(sh.paragraphs))
	copy(out, sh.paragraphs)
	return out
}

// Text returns the paragraphs joined by newlines.
func (sh *Shape) Text() string {
	return strings.Join(sh.paragraphs, "\n")
}

// ClearText leaves the text frame with a single empty paragraph.
func (sh *Shape) ClearText() {
	sh.hasText = true
	sh.paragraphs = []string{""}
}

// SetText replaces the text frame content; each line becomes a paragraph.
func (sh *Shape) SetText(text string) {
	sh.hasText = true
	sh.paragraphs = strings.Split(text, "\n")
}

// AddParagraph appends a paragraph. Newlines inside text become line breaks.
func (sh *Shape) AddParagraph(text string) {
	if !sh.hasText {
		sh.ClearText()
		sh.paragraphs[0] = lineBreaks(text)
		return
	}
	sh.paragraphs = append(sh.paragraphs, lineBreaks(text))
}

// SetParagraphs clears the text frame, writes the first item into paragraph 0
// and appends one paragraph per remaining item.
func (sh *Shape) SetParagraphs(items []string) {
	sh.ClearText()
	if len(items) == 0 {
		return
	}
	sh.paragraphs[0] = lineBreaks(items[0])
	for _, item := range items[1:] {
		sh.AddParagraph(item)
	}
}

func lineBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", "\v")
}

// AddSlide appends a slide based on layout, cloning its placeholders except
// date, footer and slide number.
func (p *Package) AddSlide(layout *Layout) *Slide {
	s := &Slide{
		path:   p.nextSlidePath(),
		layout: layout,
		added:  true,
	}
	id := 2
	for i := range layout.placeholders {
		def := layout.placeholders[i]
		if uncloned[def.kind] {
			continue
		}
		sh := &Shape{
			id:      id,
			name:    fmt.Sprintf("%s %d", placeholderBaseName(def.kind, def.orient), id-1),
			ph:      &def,
			hasText: hasTextBody(def.kind),
		}
		if sh.hasText {
			sh.paragraphs = []string{""}
		}
		s.shapes = append(s.shapes, sh)
		id++
	}
	p.slides = append(p.slides, s)
	return s
}

func (p *Package) nextSlidePath() string {
	taken := make(map[string]bool, len(p.slides))
	for _, s := range p.slides {
		taken[s.path] = true
	}
	for n := 1; ; n++ {
		name := "ppt/slides/slide" + strconv.Itoa(n) + ".xml"
		if _, ok := p.parts[name]; !ok && !taken[name] {
			return name
		}
	}
}

func (p *Package) loadSlide(slidePath string) (*Slide, error) {
	var doc xmlSlideDoc
	if err := p.decode(slidePath, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	s := &Slide{path: slidePath}
	rels, err := p.relationships(slidePath)
	if err != nil {
		return nil, err
	}
	for _, target := range rels {
		if l, ok := p.byPath[target]; ok {
			s.layout = l
			break
		}
	}
	for _, sp := range doc.CSld.Shapes {
		id, _ := strconv.Atoi(sp.NvSpPr.CNvPr.ID)
		sh := &Shape{id: id, name: sp.NvSpPr.CNvPr.Name}
		if ph := sp.NvSpPr.NvPr.Ph; ph != nil {
			sh.ph = &placeholderDef{kind: placeholderType(ph.Type), orient: ph.Orient, size: ph.Size, idx: ph.Idx}
		}
		if sp.TxBody != nil {
			sh.hasText = true
			for _, para := range sp.TxBody.Paragraphs {
				sh.paragraphs = append(sh.paragraphs, para.Text)
			}
		}
		s.shapes = append(s.shapes, sh)
	}
	return s, nil
}

// render serializes an added slide as a p:sld part.
func (s *Slide) render() []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsDrawing, nsRelationships, nsMain)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	for _, sh := range s.shapes {
		sh.render(&b)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.Bytes()
}

func (sh *Shape) render(b *bytes.Buffer) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/>`, sh.id, escape(sh.name))
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>`)
	if sh.ph != nil {
		b.WriteString(`<p:ph`)
		if sh.ph.kind != "obj" {
			fmt.Fprintf(b, ` type="%s"`, escape(sh.ph.kind))
		}
		if sh.ph.orient != "" && sh.ph.orient != "horz" {
			fmt.Fprintf(b, ` orient="%s"`, escape(sh.ph.orient))
		}
		if sh.ph.size != "" && sh.ph.size != "full" {
			fmt.Fprintf(b, ` sz="%s"`, escape(sh.ph.size))
		}
		if sh.ph.idx != "" && sh.ph.idx != "0" {
			fmt.Fprintf(b, ` idx="%s"`, escape(sh.ph.idx))
		}
		b.WriteString(`/>`)
	}
	b.WriteString(`</p:nvPr></p:nvSpPr><p:spPr/>`)
	if sh.hasText {
		b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
		for _, para := range sh.paragraphs {
			renderParagraph(b, para)
		}
		b.WriteString(`</p:txBody>`)
	}
	b.WriteString(`</p:sp>`)
}

func renderParagraph(b *bytes.Buffer, text string) {
	if text == "" {
		b.WriteString(`<a:p/>`)
		return
	}
	b.WriteString(`<a:p>`)
	for i, line := range strings.Split(text, "\v") {
		if i > 0 {
			b.WriteString(`<a:br/>`)
		}
		if line == "" {
			continue
		}
		fmt.Fprintf(b, `<a:r><a:t>%s</a:t></a:r>`, escape(line))
	}
	b.WriteString(`</a:p>`)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
