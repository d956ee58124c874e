package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// HTMLParser handles HTML files. Besides ordinary block markup it reads
// the markup an editor emits for column layouts:
//
//	<div data-type="columns" data-layout="grid">
//	  <div data-type="column" data-width="40">...</div>
//	  <div data-type="column" data-width="60">...</div>
//	</div>
//
// and heading data attributes (data-level is implied by the tag;
// data-numbered, data-indent, data-manual-number, data-collapsed, id).
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := baseTitle(filename)
	if t := findTitle(doc); t != "" {
		title = t
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	c := htmlConverter{}
	return finish(title, c.blocks(root)), nil
}

type htmlConverter struct{}

// blocks converts the children of n. Runs of loose inline content between
// block elements become paragraphs.
func (c htmlConverter) blocks(n *html.Node) []*doctree.Node {
	var out []*doctree.Node
	var run inlineRun
	flush := func() {
		if content := run.trimmed(); len(content) > 0 {
			out = append(out, doctree.New(doctree.TypeParagraph, nil, content...))
		}
		run = inlineRun{}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if isInline(child) {
			collectInline(child, &run)
			continue
		}
		flush()
		out = append(out, c.block(child)...)
	}
	flush()
	return out
}

func (c htmlConverter) block(n *html.Node) []*doctree.Node {
	if n.Type != html.ElementNode {
		return nil
	}
	if level := headingLevel(n.Data); level > 0 {
		return []*doctree.Node{htmlHeading(n, level)}
	}

	switch n.Data {
	case "script", "style", "nav", "footer", "header", "head", "template":
		return nil
	case "p":
		var run inlineRun
		collectChildren(n, &run)
		content := run.trimmed()
		if len(content) == 0 {
			return nil
		}
		return []*doctree.Node{doctree.New(doctree.TypeParagraph, nil, content...)}
	case "pre":
		code := strings.TrimRight(textContent(n), "\n")
		return []*doctree.Node{doctree.New(doctree.TypeCodeBlock, nil, doctree.NewText(code))}
	case "hr":
		return []*doctree.Node{doctree.New(doctree.TypeHorizontalRule, nil)}
	case "img":
		return []*doctree.Node{doctree.New(doctree.TypeImage, doctree.Attrs{"src": attr(n, "src"), "alt": attr(n, "alt")})}
	case "blockquote":
		return []*doctree.Node{doctree.New(doctree.TypeBlockquote, nil, c.nonEmpty(n)...)}
	case "ul", "ol":
		typ := doctree.TypeBulletList
		if n.Data == "ol" {
			typ = doctree.TypeOrderedList
		}
		var items []*doctree.Node
		for li := n.FirstChild; li != nil; li = li.NextSibling {
			if li.Type == html.ElementNode && li.Data == "li" {
				items = append(items, doctree.New(doctree.TypeListItem, nil, c.nonEmpty(li)...))
			}
		}
		if len(items) == 0 {
			return nil
		}
		return []*doctree.Node{doctree.New(typ, nil, items...)}
	case "table":
		return c.table(n)
	}

	if attr(n, "data-type") == "columns" {
		return c.columns(n)
	}
	// Generic containers, and columns outside a container, keep only their
	// content.
	return c.blocks(n)
}

// nonEmpty converts n's children and guarantees at least one block.
func (c htmlConverter) nonEmpty(n *html.Node) []*doctree.Node {
	content := c.blocks(n)
	if len(content) == 0 {
		content = []*doctree.Node{doctree.Paragraph("")}
	}
	return content
}

// columns converts container markup as written. Normalize repairs nesting,
// overflow and single columns afterwards.
func (c htmlConverter) columns(n *html.Node) []*doctree.Node {
	var cols []*doctree.Node
	var widths []float64
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || attr(child, "data-type") != "column" {
			continue
		}
		w, _ := strconv.ParseFloat(attr(child, "data-width"), 64)
		widths = append(widths, w)
		cols = append(cols, doctree.Column(w, c.nonEmpty(child)...))
	}
	if len(cols) == 0 {
		return c.blocks(n)
	}
	container := doctree.Columns(widths, cols...)
	if attr(n, "data-layout") == doctree.LayoutStacked {
		attrs := doctree.ColumnsOf(container)
		attrs.Layout = doctree.LayoutStacked
		container = container.WithAttrs(attrs.Attrs())
	}
	return []*doctree.Node{container}
}

func (c htmlConverter) table(n *html.Node) []*doctree.Node {
	var rows []*doctree.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			switch child.Data {
			case "thead", "tbody", "tfoot":
				walk(child)
			case "tr":
				var cells []*doctree.Node
				for cell := child.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
						cells = append(cells, doctree.New(doctree.TypeTableCell, nil, c.nonEmpty(cell)...))
					}
				}
				rows = append(rows, doctree.New(doctree.TypeTableRow, nil, cells...))
			}
		}
	}
	walk(n)
	if len(rows) == 0 {
		return nil
	}
	return []*doctree.Node{doctree.New(doctree.TypeTable, nil, rows...)}
}

func htmlHeading(n *html.Node, level int) *doctree.Node {
	h := doctree.HeadingAttrs{
		Level:        level,
		Numbered:     attr(n, "data-numbered") == "true",
		ManualNumber: attr(n, "data-manual-number"),
		Collapsed:    attr(n, "data-collapsed") == "true",
		ID:           attr(n, "id"),
	}
	if indent, err := strconv.Atoi(attr(n, "data-indent")); err == nil {
		h.Indent = min(max(indent, 0), 5)
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	var run inlineRun
	collectChildren(n, &run)
	return doctree.New(doctree.TypeHeading, h.Attrs(), run.trimmed()...)
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "cite": true, "code": true,
	"em": true, "i": true, "kbd": true, "mark": true, "q": true, "s": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true,
	"time": true, "u": true,
}

func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return inlineTags[n.Data]
	}
	return false
}

func collectInline(n *html.Node, run *inlineRun) {
	switch n.Type {
	case html.TextNode:
		run.text(collapseSpace(n.Data))
	case html.ElementNode:
		if n.Data == "br" {
			run.hardBreak()
			return
		}
		collectChildren(n, run)
	}
}

func collectChildren(n *html.Node, run *inlineRun) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectInline(child, run)
	}
}

// collapseSpace folds HTML whitespace runs into single spaces.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s, " \t\r\n") != s {
		out = " " + out
	}
	if strings.TrimRight(s, " \t\r\n") != s {
		out += " "
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return strings.TrimSpace(textContent(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
