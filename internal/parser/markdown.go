package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// MarkdownParser handles Markdown files using goldmark with GFM tables.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	c := mdConverter{src: src}
	var blocks []*doctree.Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, c.block(n)...)
	}
	return finish(baseTitle(filename), blocks), nil
}

type mdConverter struct {
	src []byte
}

// block converts one goldmark block node. Unsupported blocks such as raw
// HTML are dropped.
func (c mdConverter) block(n ast.Node) []*doctree.Node {
	switch node := n.(type) {
	case *ast.Heading:
		h := heading(node.Level, "")
		return []*doctree.Node{h.WithContent(c.inlines(node))}

	case *ast.Paragraph, *ast.TextBlock:
		content := c.inlines(node)
		if len(content) == 0 {
			return nil
		}
		return []*doctree.Node{doctree.New(doctree.TypeParagraph, nil, content...)}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := strings.TrimRight(c.lines(node), "\n")
		return []*doctree.Node{doctree.New(doctree.TypeCodeBlock, nil, doctree.NewText(code))}

	case *ast.ThematicBreak:
		return []*doctree.Node{doctree.New(doctree.TypeHorizontalRule, nil)}

	case *ast.Blockquote:
		return []*doctree.Node{doctree.New(doctree.TypeBlockquote, nil, c.children(node)...)}

	case *ast.List:
		typ := doctree.TypeBulletList
		if node.IsOrdered() {
			typ = doctree.TypeOrderedList
		}
		var items []*doctree.Node
		for li := node.FirstChild(); li != nil; li = li.NextSibling() {
			content := c.children(li)
			if len(content) == 0 {
				content = []*doctree.Node{doctree.Paragraph("")}
			}
			items = append(items, doctree.New(doctree.TypeListItem, nil, content...))
		}
		return []*doctree.Node{doctree.New(typ, nil, items...)}

	case *extast.Table:
		var rows []*doctree.Node
		for row := node.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []*doctree.Node
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				if _, ok := cell.(*extast.TableCell); !ok {
					continue
				}
				para := doctree.New(doctree.TypeParagraph, nil, c.inlines(cell)...)
				cells = append(cells, doctree.New(doctree.TypeTableCell, nil, para))
			}
			rows = append(rows, doctree.New(doctree.TypeTableRow, nil, cells...))
		}
		return []*doctree.Node{doctree.New(doctree.TypeTable, nil, rows...)}
	}
	return nil
}

func (c mdConverter) children(n ast.Node) []*doctree.Node {
	var out []*doctree.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.block(child)...)
	}
	return out
}

// inlines flattens the inline children of n into text runs. Formatting is
// not kept; soft line breaks become spaces and hard ones hard breaks.
func (c mdConverter) inlines(n ast.Node) []*doctree.Node {
	var run inlineRun
	c.collect(n, &run)
	return run.trimmed()
}

func (c mdConverter) collect(n ast.Node, run *inlineRun) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			run.text(string(node.Value(c.src)))
			switch {
			case node.HardLineBreak():
				run.hardBreak()
			case node.SoftLineBreak():
				run.text(" ")
			}
		case *ast.String:
			run.text(string(node.Value))
		case *ast.AutoLink:
			run.text(string(node.Label(c.src)))
		case *ast.RawHTML:
			// dropped
		default:
			c.collect(child, run)
		}
	}
}

func (c mdConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.src))
	}
	return buf.String()
}
