package tui

// addStep attaches a step node below parent. Steps write into the module's terminal
// so the log pane shows a module's whole history.
func addStep(parent *Node, name, arch string) *Node {
	root := parent
	for root.Parent != nil {
		root = root.Parent
	}

	step := &Node{
		Name:   name,
		Arch:   arch,
		Status: StatusRunning,
		Term:   root.Term,
		Depth:  parent.Depth + 1,
		Parent: parent,
	}
	parent.Children = append(parent.Children, step)
	return step
}

// flattenTree converts the tree into a linear list respecting expansion state.
// Only expanded nodes have their children included.
func flattenTree(roots []*Node) []*Node {
	flat := make([]*Node, 0, len(roots))

	var walk func(node *Node)
	walk = func(node *Node) {
		flat = append(flat, node)
		if node.IsExpanded {
			for _, child := range node.Children {
				walk(child)
			}
		}
	}

	for _, root := range roots {
		walk(root)
	}
	return flat
}

// moduleOf returns the top-level module a node belongs to.
func moduleOf(node *Node) *Node {
	for node != nil && node.Parent != nil {
		node = node.Parent
	}
	return node
}
