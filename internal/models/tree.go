package models

type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// BuildCategoryTree nests a flat category list by parent_id. Records whose
// parent is absent from the list become roots. Children keep input order.
// Every input record appears exactly once in the result; a parent cycle in
// the input is broken at its first member in input order.
func BuildCategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[int64]*CategoryNode, len(categories))
	ordered := make([]*CategoryNode, len(categories))
	for i := range categories {
		node := &CategoryNode{Category: categories[i], Children: []*CategoryNode{}}
		ordered[i] = node
		if _, dup := nodes[node.ID]; !dup {
			nodes[node.ID] = node
		}
	}

	parents := make(map[*CategoryNode]*CategoryNode, len(ordered))
	roots := []*CategoryNode{}
	for _, node := range ordered {
		if node.ParentID != nil {
			parent, ok := nodes[*node.ParentID]
			if ok && parent != node {
				parent.Children = append(parent.Children, node)
				parents[node] = parent
				continue
			}
		}
		roots = append(roots, node)
	}

	reached := make(map[*CategoryNode]bool, len(ordered))
	mark(roots, reached)
	for _, node := range ordered {
		if reached[node] {
			continue
		}
		parent := parents[node]
		parent.Children = removeNode(parent.Children, node)
		roots = append(roots, node)
		mark([]*CategoryNode{node}, reached)
	}

	return roots
}

func mark(forest []*CategoryNode, reached map[*CategoryNode]bool) {
	for _, node := range forest {
		if reached[node] {
			continue
		}
		reached[node] = true
		mark(node.Children, reached)
	}
}

func removeNode(list []*CategoryNode, target *CategoryNode) []*CategoryNode {
	for i, n := range list {
		if n == target {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Count returns the number of nodes in the forest.
func Count(forest []*CategoryNode) int {
	n := 0
	for _, node := range forest {
		n += 1 + Count(node.Children)
	}
	return n
}
