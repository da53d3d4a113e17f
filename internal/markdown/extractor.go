// Package markdown walks goldmark's AST and produces trackable items with
// source positions and stable IDs.
package markdown

import (
	"bytes"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/mdtrack/internal/track"
)

// md is configured once; goldmark parsers are safe for concurrent use.
var md = goldmark.New(goldmark.WithExtensions(extension.TaskList))

// Parse parses Markdown source into a complete ParsedDocument snapshot.
func Parse(src []byte, sourcePath string) *track.ParsedDocument {
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	items := ExtractItems(doc, src)
	tree := track.BuildTree(items)

	return &track.ParsedDocument{
		SourcePath: sourcePath,
		Items:      items,
		Tree:       tree,
		ItemCount:  track.CountItems(items),
		ParsedAt:   time.Now(),
	}
}

// ExtractItems walks the document's top-level blocks in order and returns a
// flat, document-ordered item list. Headers and lists produce items; every
// other block (paragraphs, code blocks, blockquotes) is skipped. Depth on the
// result reflects only intrinsic list nesting, never header ownership — that
// is tree building's job.
func ExtractItems(doc ast.Node, src []byte) []*track.Item {
	idx := newLineIndex(src)

	var items []*track.Item
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			items = append(items, extractHeading(node, src, idx))
		case *ast.List:
			items = append(items, extractList(node, src, idx, 0)...)
		}
	}
	return items
}

func extractHeading(node *ast.Heading, src []byte, idx *lineIndex) *track.Item {
	item := &track.Item{
		Type:     track.TypeHeader,
		Content:  flattenInline(node, src),
		Depth:    node.Level,
		Position: blockPosition(node, idx),
	}
	item.ID = track.GenerateID(item.Type, item.Position.Line, item.Position.Column, item.Content)
	return item
}

func extractList(list *ast.List, src []byte, idx *lineIndex, depth int) []*track.Item {
	ordered := list.IsOrdered()

	var items []*track.Item
	for c := list.FirstChild(); c != nil; c = c.NextSibling() {
		li, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		items = append(items, extractListItem(li, src, idx, depth, ordered))
	}
	return items
}

func extractListItem(li *ast.ListItem, src []byte, idx *lineIndex, depth int, ordered bool) *track.Item {
	body := itemBody(li)

	item := &track.Item{
		Type:    track.TypeListItem,
		Depth:   depth,
		Ordered: ordered,
	}
	if body != nil {
		item.Content = flattenInline(body, src)
		item.Position = blockPosition(body, idx)
		if cb, ok := body.FirstChild().(*east.TaskCheckBox); ok {
			item.Type = track.TypeCheckbox
			item.Checked = cb.IsChecked
		}
	}

	// Nested lists become children one level deeper.
	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		if nested, ok := c.(*ast.List); ok {
			item.Children = append(item.Children, extractList(nested, src, idx, depth+1)...)
		}
	}

	// A parent's span swallows its children: widen the end over the last
	// child when it ends later than the item's own lines.
	if n := len(item.Children); n > 0 {
		last := item.Children[n-1]
		if !item.Position.Closed() || lastEndsAfter(last.Position, item.Position) {
			item.Position.EndLine = last.Position.EndLine
			item.Position.EndColumn = last.Position.EndColumn
		}
	}

	item.ID = track.GenerateID(item.Type, item.Position.Line, item.Position.Column, item.Content)
	return item
}

// itemBody returns the first paragraph-like child of a list item: the block
// holding the item's own inline text. Tight lists use TextBlock, loose lists
// Paragraph.
func itemBody(li *ast.ListItem) ast.Node {
	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			return c
		}
	}
	return nil
}

func lastEndsAfter(child, own track.Position) bool {
	if child.EndLine != own.EndLine {
		return child.EndLine > own.EndLine
	}
	return child.EndColumn > own.EndColumn
}

// blockPosition derives a closed position from a block node's line segments.
// A node with no recorded lines soft-fails to the zero position; the item is
// still emitted.
func blockPosition(node ast.Node, idx *lineIndex) track.Position {
	lines := node.Lines()
	if lines.Len() == 0 {
		return track.Position{}
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return idx.position(first.Start, last.Stop)
}

// flattenInline collects a block's inline text: plain text and code-span runs
// keep their text, nested formatting contributes only its text, checkbox
// markers contribute nothing.
func flattenInline(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *east.TaskCheckBox:
			// Marker, not content.
		default:
			buf.WriteString(flattenInline(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
