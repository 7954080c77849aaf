package docx

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// container is any WordprocessingML element holding paragraphs and tables:
// the document body, a header, a footer or a table cell.
type container struct {
	blocks []block
}

// block is either a paragraph or a table.
type block struct {
	text string
	rows [][]string
}

// parseContainer decodes the root element of a part.
func parseContainer(data []byte) (*container, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return &container{}, nil
		}
		if err != nil {
			return nil, err
		}
		if _, ok := tok.(xml.StartElement); ok {
			c := &container{}
			if err := c.decodeChildren(d); err != nil {
				return nil, err
			}
			return c, nil
		}
	}
}

func (c *container) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	return c.decodeChildren(d)
}

// decodeChildren reads until the end of the current element. Wrappers such
// as <w:body> and content controls are flattened into c.
func (c *container) decodeChildren(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p paragraph
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				c.blocks = append(c.blocks, block{text: p.text})
			case "tbl":
				var tb table
				if err := d.DecodeElement(&tb, &t); err != nil {
					return err
				}
				c.blocks = append(c.blocks, block{rows: tb.rows})
			case "body", "sdt", "sdtContent", "customXml":
				if err := c.decodeChildren(d); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// texts renders each non-empty block.
func (c *container) texts() []string {
	var out []string
	for _, b := range c.blocks {
		if b.rows == nil {
			if text := strings.TrimSpace(b.text); text != "" {
				out = append(out, text)
			}
			continue
		}
		var lines []string
		for _, row := range b.rows {
			if line := strings.Join(row, " | "); strings.Trim(line, " |") != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}

// paragraph collects the text of every run, including runs nested in
// hyperlinks and field results.
type paragraph struct {
	text string
}

func (p *paragraph) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				b.WriteString(s)
			case "pPr", "rPr", "instrText", "delText":
				if err := d.Skip(); err != nil {
					return err
				}
			case "tab":
				b.WriteString("\t")
				depth++
			case "br", "cr":
				b.WriteString("\n")
				depth++
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	p.text = b.String()
	return nil
}

type table struct {
	rows [][]string
}

func (tb *table) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "tr" {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var r tableRow
			if err := d.DecodeElement(&r, &t); err != nil {
				return err
			}
			tb.rows = append(tb.rows, r.cells)
		case xml.EndElement:
			return nil
		}
	}
}

type tableRow struct {
	cells []string
}

func (r *tableRow) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "tc" {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var cell container
			if err := d.DecodeElement(&cell, &t); err != nil {
				return err
			}
			r.cells = append(r.cells, strings.Join(cell.texts(), " "))
		case xml.EndElement:
			return nil
		}
	}
}
