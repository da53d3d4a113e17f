package track

// BuildTree nests a flat, document-ordered item list under its headers.
// Headers own every following item until the next header of equal or higher
// rank (an H2 closes a prior H2 or H3, never a prior H1). Input items are
// cloned; the flat list is left untouched. A container header's end position
// is widened to its last child's end so the span covers all descendants.
func BuildTree(items []*Item) []*Item {
	var roots []*Item

	// Stack of open headers, outermost first.
	var stack []*Item

	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n := len(top.Children); n > 0 {
			last := top.Children[n-1]
			top.Position.EndLine = last.Position.EndLine
			top.Position.EndColumn = last.Position.EndColumn
		}
	}

	for _, item := range items {
		node := cloneItem(item)

		if node.Type != TypeHeader {
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			} else {
				// No header context yet.
				roots = append(roots, node)
			}
			continue
		}

		// Pop every header this one cannot nest under.
		for len(stack) > 0 && stack[len(stack)-1].Depth >= node.Depth {
			closeTop()
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}

	// Inner headers close before outer ones so end positions propagate up.
	for len(stack) > 0 {
		closeTop()
	}

	return roots
}

// FlattenTree serializes a tree depth-first, pre-order: each item before its
// children, children before later siblings. No position recomputation.
func FlattenTree(tree []*Item) []*Item {
	var flat []*Item
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, item := range items {
			flat = append(flat, item)
			walk(item.Children)
		}
	}
	walk(tree)
	return flat
}

// CountItems counts every node in the forest, descendants included.
func CountItems(items []*Item) int {
	n := 0
	for _, item := range items {
		n += 1 + CountItems(item.Children)
	}
	return n
}

// FindItem locates an item by ID anywhere in the forest, or nil.
func FindItem(items []*Item, id string) *Item {
	for _, item := range items {
		if item.ID == id {
			return item
		}
		if found := FindItem(item.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// cloneItem copies an item with an independent children slice so tree
// building never aliases the caller's flat list.
func cloneItem(item *Item) *Item {
	node := *item
	node.Children = append([]*Item(nil), item.Children...)
	return &node
}
