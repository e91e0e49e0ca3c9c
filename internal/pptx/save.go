package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	rootPrefixRe = regexp.MustCompile(`<(?:([A-Za-z_][\w.-]*):)?presentation[\s>/]`)
	relsNSRe     = regexp.MustCompile(`xmlns:([A-Za-z_][\w.-]*)="` + regexp.QuoteMeta(nsRelationships) + `"`)
	relIDRe      = regexp.MustCompile(`Id="rId(\d+)"`)
)

// Bytes serializes the package.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the package with every added slide. The package itself is not
// modified, so Save may be called more than once. A template (.potx) is written
// as a presentation.
func (p *Package) Save(w io.Writer) error {
	out, extra, err := p.updatedParts()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, name := range append(append([]string{}, p.order...), extra...) {
		data, ok := out[name]
		if !ok {
			data = p.parts[name]
		}
		if err := writeZipEntry(zw, name, data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("pptx: close archive: %w", err)
	}
	return nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
	if strings.HasSuffix(name, "/") {
		hdr.Method = zip.Store
	}
	fw, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("pptx: create %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("pptx: write %s: %w", name, err)
	}
	return nil
}

// updatedParts returns replacement content for modified parts and the names of
// parts that did not exist in the template.
func (p *Package) updatedParts() (map[string][]byte, []string, error) {
	out := make(map[string][]byte)
	var extra []string

	contentTypes, ok := p.parts[contentTypesPart]
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing %s", ErrNotPresentation, contentTypesPart)
	}
	contentTypes = bytes.ReplaceAll(contentTypes, []byte(contentTypeTemplateMain), []byte(contentTypePresentation))

	var added []*Slide
	for _, s := range p.slides {
		if s.added {
			added = append(added, s)
		}
	}
	if len(added) == 0 {
		out[contentTypesPart] = contentTypes
		return out, nil, nil
	}

	presRelsPath := relsPathFor(p.presPath)
	presRels := p.parts[presRelsPath]
	if presRels == nil {
		presRels = []byte(xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)
		extra = append(extra, presRelsPath)
	}
	nextRel := maxRelID(presRels) + 1
	nextSlideID := p.maxSlideID + 1
	if nextSlideID < 256 {
		nextSlideID = 256
	}

	var rels, ids, overrides strings.Builder
	relsPrefix, declared := relationshipsPrefix(p.parts[p.presPath])
	prefix := elementPrefix(p.parts[p.presPath])

	for _, s := range added {
		rid := "rId" + strconv.Itoa(nextRel)
		nextRel++
		fmt.Fprintf(&rels, `<Relationship Id="%s" Type="%s" Target="%s"/>`, rid, relTypeSlide, relativeTarget(p.presPath, s.path))

		ns := ""
		if !declared {
			ns = fmt.Sprintf(` xmlns:%s="%s"`, relsPrefix, nsRelationships)
		}
		fmt.Fprintf(&ids, `<%ssldId%s id="%d" %s:id="%s"/>`, prefix, ns, nextSlideID, relsPrefix, rid)
		nextSlideID++

		fmt.Fprintf(&overrides, `<Override PartName="/%s" ContentType="%s"/>`, s.path, contentTypeSlide)

		out[s.path] = s.render()
		slideRels := xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			fmt.Sprintf(`<Relationship Id="rId1" Type="%s" Target="%s"/>`, relTypeLayout, relativeTarget(s.path, s.layout.path)) +
			`</Relationships>`
		out[relsPathFor(s.path)] = []byte(slideRels)
		extra = append(extra, s.path, relsPathFor(s.path))
	}

	var err error
	if out[presRelsPath], err = insertBeforeClose(presRels, "Relationships", rels.String()); err != nil {
		return nil, nil, err
	}
	if out[contentTypesPart], err = insertBeforeClose(contentTypes, "Types", overrides.String()); err != nil {
		return nil, nil, err
	}
	if out[p.presPath], err = insertSlideIDs(p.parts[p.presPath], prefix, ids.String()); err != nil {
		return nil, nil, err
	}
	return out, extra, nil
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func maxRelID(rels []byte) int {
	highest := 0
	for _, m := range relIDRe.FindAllSubmatch(rels, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// elementPrefix returns the element prefix used by the presentation root,
// including the colon, e.g. "p:".
func elementPrefix(pres []byte) string {
	m := rootPrefixRe.FindSubmatch(pres)
	if m == nil || len(m[1]) == 0 {
		return ""
	}
	return string(m[1]) + ":"
}

// relationshipsPrefix returns the prefix bound to the relationships namespace and
// whether the presentation part declares it.
func relationshipsPrefix(pres []byte) (string, bool) {
	if m := relsNSRe.FindSubmatch(pres); m != nil {
		return string(m[1]), true
	}
	return "r", false
}

// insertBeforeClose inserts frag as the last children of the first element named
// local (any prefix).
func insertBeforeClose(doc []byte, local, frag string) ([]byte, error) {
	closeRe := regexp.MustCompile(`</(?:[A-Za-z_][\w.-]*:)?` + local + `\s*>`)
	if loc := closeRe.FindIndex(doc); loc != nil {
		return splice(doc, loc[0], loc[0], frag), nil
	}
	selfRe := regexp.MustCompile(`<((?:[A-Za-z_][\w.-]*:)?` + local + `)\b([^>]*?)\s*/>`)
	if m := selfRe.FindSubmatchIndex(doc); m != nil {
		name := string(doc[m[2]:m[3]])
		attrs := string(doc[m[4]:m[5]])
		return splice(doc, m[0], m[1], "<"+name+attrs+">"+frag+"</"+name+">"), nil
	}
	return nil, fmt.Errorf("%w: no %s element", ErrNotPresentation, local)
}

// insertSlideIDs appends p:sldId entries to p:sldIdLst, creating the list in
// schema order when the template has no slides.
func insertSlideIDs(pres []byte, prefix, ids string) ([]byte, error) {
	if out, err := insertBeforeClose(pres, "sldIdLst", ids); err == nil {
		return out, nil
	}
	list := "<" + prefix + "sldIdLst>" + ids + "</" + prefix + "sldIdLst>"
	for _, after := range []string{"handoutMasterIdLst", "notesMasterIdLst", "sldMasterIdLst"} {
		closeTag := "</" + prefix + after + ">"
		if i := bytes.Index(pres, []byte(closeTag)); i >= 0 {
			at := i + len(closeTag)
			return splice(pres, at, at, list), nil
		}
	}
	if i := bytes.Index(pres, []byte("<"+prefix+"sldSz")); i >= 0 {
		return splice(pres, i, i, list), nil
	}
	return nil, fmt.Errorf("%w: cannot place slide list", ErrNotPresentation)
}

func splice(doc []byte, from, to int, frag string) []byte {
	out := make([]byte, 0, len(doc)+len(frag))
	out = append(out, doc[:from]...)
	out = append(out, frag...)
	return append(out, doc[to:]...)
}
