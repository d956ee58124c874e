package doctree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// HeadingAttrs are the typed attributes of a heading node.
type HeadingAttrs struct {
	Level        int    // 1..6, drives fold depth
	Numbered     bool   // participates in hierarchical numbering
	ManualNumber string // shown instead of the computed label when set
	Indent       int    // 0..5, drives numbering depth
	Collapsed    bool
	ID           string
}

// HeadingOf reads heading attributes with Level clamped to 1..6 and Indent
// clamped to 0..5.
func HeadingOf(n *Node) HeadingAttrs {
	a := n.Attrs()
	return HeadingAttrs{
		Level:        clamp(intAttr(a, "level", 1), 1, 6),
		Numbered:     boolAttr(a, "numbered"),
		ManualNumber: stringAttr(a, "manualNumber"),
		Indent:       clamp(intAttr(a, "indent", 0), 0, 5),
		Collapsed:    boolAttr(a, "collapsed"),
		ID:           stringAttr(a, "id"),
	}
}

// Attrs converts h to a node attribute map. An empty ManualNumber is stored
// as nil.
func (h HeadingAttrs) Attrs() Attrs {
	var manual any
	if h.ManualNumber != "" {
		manual = h.ManualNumber
	}
	return Attrs{
		"level":        h.Level,
		"numbered":     h.Numbered,
		"manualNumber": manual,
		"indent":       h.Indent,
		"collapsed":    h.Collapsed,
		"id":           h.ID,
	}
}

// Column layout modes.
const (
	LayoutGrid    = "grid"
	LayoutStacked = "stacked"
)

// ColumnsAttrs are the typed attributes of a columns container.
type ColumnsAttrs struct {
	Count  int
	Widths []float64
	Layout string
}

// ColumnsOf reads columns container attributes.
func ColumnsOf(n *Node) ColumnsAttrs {
	a := n.Attrs()
	layout := stringAttr(a, "layout")
	if layout != LayoutStacked {
		layout = LayoutGrid
	}
	return ColumnsAttrs{
		Count:  intAttr(a, "count", n.ChildCount()),
		Widths: floatsAttr(a, "columnWidths"),
		Layout: layout,
	}
}

// Attrs converts c to a node attribute map.
func (c ColumnsAttrs) Attrs() Attrs {
	widths := make([]float64, len(c.Widths))
	copy(widths, c.Widths)
	layout := c.Layout
	if layout == "" {
		layout = LayoutGrid
	}
	return Attrs{"count": c.Count, "columnWidths": widths, "layout": layout}
}

// ColumnWidth reads the width attribute of a column node.
func ColumnWidth(n *Node) float64 {
	return floatAttr(n.Attrs(), "width", 0)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func intAttr(a Attrs, key string, fallback int) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func floatAttr(a Attrs, key string, fallback float64) float64 {
	if f, ok := toFloat(a[key]); ok {
		return f
	}
	return fallback
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func floatsAttr(a Attrs, key string) []float64 {
	switch v := a[key].(type) {
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]float64, 0, len(v))
		for _, e := range v {
			f, ok := toFloat(e)
			if !ok {
				return nil
			}
			out = append(out, f)
		}
		return out
	}
	return nil
}

func boolAttr(a Attrs, key string) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func stringAttr(a Attrs, key string) string {
	s, _ := a[key].(string)
	return s
}
