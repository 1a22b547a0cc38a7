package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DefaultTreeTitle is used for nodes that arrive without a title.
const DefaultTreeTitle = "Node"

// TreeNode is one node of the labeled tree carried by case summaries.
// Trees arrive as a single materialized snapshot, so no cycle detection is
// done; a self-referential structure cannot be expressed in the JSON payload.
type TreeNode struct {
	Title    string
	Content  string // empty means absent
	Children []*TreeNode
}

// ParseTree decodes a tree from raw JSON, defaulting every field instead of
// failing. Falsy values (missing, null, false, 0, "") yield nil. Any other
// non-object value is a bare node with the default title and no children.
func ParseTree(raw json.RawMessage) *TreeNode {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] != '{' {
		if displayText(raw, true) == "" {
			return nil
		}
		return &TreeNode{Title: DefaultTreeTitle}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	node := &TreeNode{
		Title:   DefaultTreeTitle,
		Content: displayText(fields["content"], true),
	}
	if !isAbsent(fields["title"]) {
		node.Title = displayText(fields["title"], false)
	}

	var children []json.RawMessage
	if json.Unmarshal(fields["children"], &children) == nil {
		for _, c := range children {
			if child := ParseTree(c); child != nil {
				node.Children = append(node.Children, child)
			}
		}
	}
	return node
}

// Count returns the number of nodes in the tree rooted at n.
func (n *TreeNode) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

// displayText renders a JSON value as display text. Containers are shown as
// compact JSON. With skipFalsy, null, false, 0 and "" yield "".
func displayText(raw json.RawMessage, skipFalsy bool) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if skipFalsy && !t {
			return ""
		}
		return strconv.FormatBool(t)
	case float64:
		if skipFalsy && t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	}
}
