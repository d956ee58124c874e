package doctree

// Doc builds a document root.
func Doc(content ...*Node) *Node {
	return New(TypeDoc, nil, content...)
}

// Paragraph builds a paragraph holding text. An empty string yields a
// childless paragraph.
func Paragraph(text string) *Node {
	return New(TypeParagraph, nil, NewText(text))
}

// Heading builds a plain heading at level.
func Heading(level int, text string) *Node {
	return New(TypeHeading, HeadingAttrs{Level: level}.Attrs(), NewText(text))
}

// Column builds a column of the given width.
func Column(width float64, content ...*Node) *Node {
	return New(TypeColumn, Attrs{"width": width}, content...)
}

// Columns builds a grid columns container; count is taken from cols.
func Columns(widths []float64, cols ...*Node) *Node {
	attrs := ColumnsAttrs{Count: len(cols), Widths: widths, Layout: LayoutGrid}.Attrs()
	return New(TypeColumns, attrs, cols...)
}
