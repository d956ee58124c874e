package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// DOCXParser handles .docx files. Heading styles become headings, tables
// become tables and every other paragraph becomes a paragraph.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReaderAt plus size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return finish(baseTitle(filename), docxBlocks(doc.Document.Body.Items)), nil
}

func docxBlocks(items []interface{}) []*doctree.Node {
	var blocks []*doctree.Node
	for _, item := range items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := docxParagraphText(it)
			if text == "" {
				continue
			}
			if level := docxHeadingLevel(it); level > 0 {
				blocks = append(blocks, heading(level, text))
			} else {
				blocks = append(blocks, paragraph(text))
			}
		case *docx.Table:
			if t := docxTable(it); t != nil {
				blocks = append(blocks, t)
			}
		}
	}
	return blocks
}

func docxTable(t *docx.Table) *doctree.Node {
	rows := make([]*doctree.Node, 0, len(t.TableRows))
	for _, tr := range t.TableRows {
		cells := make([]*doctree.Node, 0, len(tr.TableCells))
		for _, tc := range tr.TableCells {
			var content []*doctree.Node
			for _, para := range tc.Paragraphs {
				if text := docxParagraphText(para); text != "" {
					content = append(content, paragraph(text))
				}
			}
			for _, nested := range tc.Tables {
				if n := docxTable(nested); n != nil {
					content = append(content, n)
				}
			}
			if len(content) == 0 {
				content = []*doctree.Node{doctree.Paragraph("")}
			}
			cells = append(cells, doctree.New(doctree.TypeTableCell, nil, content...))
		}
		if len(cells) > 0 {
			rows = append(rows, doctree.New(doctree.TypeTableRow, nil, cells...))
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return doctree.New(doctree.TypeTable, nil, rows...)
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	switch style {
	case "title", "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4":
		return 4
	case "heading5":
		return 5
	case "heading6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
