// Package track defines the trackable-item model: positions, the item tree,
// stable IDs, and slice extraction against the source text the positions were
// computed from.
package track

import "time"

// ItemType classifies a trackable item.
type ItemType string

const (
	TypeHeader   ItemType = "header"
	TypeListItem ItemType = "list_item"
	TypeCheckbox ItemType = "checkbox"
)

// Position addresses a span of source text. Line and Column are 1-indexed;
// EndColumn is exclusive (one past the last character on EndLine). A Position
// with zero end fields is open: no end is known yet.
type Position struct {
	Line      int `json:"line"`
	Column    int `json:"column"`
	EndLine   int `json:"end_line,omitempty"`
	EndColumn int `json:"end_column,omitempty"`
}

// Closed reports whether the position carries a complete end coordinate.
func (p Position) Closed() bool {
	return p.EndLine > 0 && p.EndColumn > 0
}

// Item is a single trackable unit extracted from a Markdown document.
//
// Depth is the heading level (1-6) for headers and the intrinsic list nesting
// depth (0 for top-level list items) otherwise. Position covers the item's own
// declaration lines; tree building widens it over descendants. Children holds
// nested list items after extraction and, after tree building, everything a
// header owns up to the next header of equal or higher rank.
type Item struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Content  string   `json:"content"`
	Depth    int      `json:"depth"`
	Checked  bool     `json:"checked,omitempty"`
	Ordered  bool     `json:"ordered,omitempty"`
	Position Position `json:"position"`
	Children []*Item  `json:"children,omitempty"`
}

// ParsedDocument is a read-only snapshot of one parse. A new parse produces a
// new ParsedDocument; positions and IDs are valid only against the exact
// source text they were computed from.
type ParsedDocument struct {
	SourcePath string    `json:"source_path,omitempty"`
	Items      []*Item   `json:"items"`
	Tree       []*Item   `json:"tree"`
	ItemCount  int       `json:"item_count"`
	ParsedAt   time.Time `json:"parsed_at"`
}
