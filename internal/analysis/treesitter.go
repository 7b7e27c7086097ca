package analysis

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeText extracts the source text covered by a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// compactText returns the node text with all whitespace removed. Used for
// dotted names, which may legally be split across continuation lines.
func compactText(node *sitter.Node, source []byte) string {
	return strings.Join(strings.Fields(nodeText(node, source)), "")
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
// Returning false from the visitor skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}

// namedChildren returns the named children of node, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		results = append(results, child)
	}
	return results
}

// unwrapDecorated returns the definition inside a decorated_definition,
// or node itself for anything else.
func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node != nil && node.Kind() == "decorated_definition" {
		if def := node.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return node
}

// sameNode reports whether a and b cover the same span of the same kind.
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// firstSyntaxError finds the first ERROR or MISSING node in document order.
func firstSyntaxError(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	return found
}

// firstInvalidStatement finds the first construct the grammar accepts but
// Python 3 rejects: print and exec statements, and assignments chained
// through an augmented assignment (a = b += 1).
func firstInvalidStatement(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		switch n.Kind() {
		case "print_statement", "exec_statement":
			found = n
			return false
		case "assignment", "augmented_assignment":
			right := n.ChildByFieldName("right")
			if right == nil {
				return true
			}
			if right.Kind() == "augmented_assignment" || (n.Kind() == "augmented_assignment" && right.Kind() == "assignment") {
				found = right
				return false
			}
		}
		return true
	})
	return found
}
