package pptx

import (
	"encoding/xml"
	"strconv"
	"strings"
)

type xmlRelationships struct {
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// xmlIDRef is an id list entry such as p:sldId. RID must stay first: a bare
// "id,attr" field would also match r:id.
type xmlIDRef struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	ID  string `xml:"id,attr"`
}

type xmlPresentation struct {
	Masters []xmlIDRef `xml:"sldMasterIdLst>sldMasterId"`
	Slides  []xmlIDRef `xml:"sldIdLst>sldId"`
}

type xmlMaster struct {
	Layouts []xmlIDRef `xml:"sldLayoutIdLst>sldLayoutId"`
}

// xmlSlideDoc covers p:sld and p:sldLayout, which share the cSld shape tree.
type xmlSlideDoc struct {
	CSld struct {
		Name   string     `xml:"name,attr"`
		Shapes []xmlShape `xml:"spTree>sp"`
	} `xml:"cSld"`
}

type xmlShape struct {
	NvSpPr struct {
		CNvPr struct {
			ID   string `xml:"id,attr"`
			Name string `xml:"name,attr"`
		} `xml:"cNvPr"`
		NvPr struct {
			Ph *xmlPlaceholder `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	TxBody *struct {
		Paragraphs []xmlParagraph `xml:"p"`
	} `xml:"txBody"`
}

type xmlPlaceholder struct {
	Type   string `xml:"type,attr"`
	Orient string `xml:"orient,attr"`
	Size   string `xml:"sz,attr"`
	Idx    string `xml:"idx,attr"`
}

// xmlParagraph flattens a:p into its text: every a:t in document order, with
// a:br rendered as a vertical tab.
type xmlParagraph struct {
	Text string
}

func (p *xmlParagraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 0
	inText := false
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				b.WriteByte('\v')
			}
		case xml.EndElement:
			if depth == 0 {
				p.Text = b.String()
				return nil
			}
			depth--
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
}

func parseUint(s string) uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
