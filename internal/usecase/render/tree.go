package render

import (
	"strings"

	"casedesk/internal/domain"
)

// treeIndent is added once per level of depth.
const treeIndent = "  "

// RenderTree renders a tree as one "- title: content" line per node, children
// indented under their parent in order. A nil tree renders as "".
func RenderTree(root *domain.TreeNode) string {
	var sb strings.Builder
	renderTree(&sb, root, "")
	return sb.String()
}

func renderTree(sb *strings.Builder, n *domain.TreeNode, indent string) {
	if n == nil {
		return
	}
	sb.WriteString(indent)
	sb.WriteString("- ")
	sb.WriteString(n.Title)
	if n.Content != "" {
		sb.WriteString(": ")
		sb.WriteString(n.Content)
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		renderTree(sb, c, indent+treeIndent)
	}
}
