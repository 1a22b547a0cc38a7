package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"casedesk/internal/domain"
)

func TestRenderTree(t *testing.T) {
	root := domain.ParseTree([]byte(`{
		"title": "Case 00001161",
		"content": "Router drops",
		"children": [
			{"title": "Symptoms", "children": [{"title": "Packet loss", "content": "30%"}]},
			{"title": "Fix", "content": "Firmware 2.1", "children": {"bad": true}}
		]
	}`))

	want := "- Case 00001161: Router drops\n" +
		"  - Symptoms\n" +
		"    - Packet loss: 30%\n" +
		"  - Fix: Firmware 2.1\n"
	assert.Equal(t, want, RenderTree(root))
}

func TestRenderTreeMissing(t *testing.T) {
	assert.Equal(t, "", RenderTree(nil))
	assert.Equal(t, "- Node\n", RenderTree(domain.ParseTree([]byte(`{}`))))
}

func TestRenderTreeLeafIdempotent(t *testing.T) {
	leaf := &domain.TreeNode{Title: "Only", Content: "one"}
	first := RenderTree(leaf)
	assert.Equal(t, first, RenderTree(leaf))
	assert.Equal(t, "- Only: one\n", first)
}

// buildTree attaches node k (k >= 1) under node parents[k-1] % k, which yields
// every finite tree shape as parents vary.
func buildTree(parents []int) *domain.TreeNode {
	nodes := []*domain.TreeNode{{Title: "n0"}}
	for i, p := range parents {
		k := i + 1
		n := &domain.TreeNode{Title: fmt.Sprintf("n%d", k)}
		if k%2 == 0 {
			n.Content = "c"
		}
		parent := nodes[p%k]
		parent.Children = append(parent.Children, n)
		nodes = append(nodes, n)
	}
	return nodes[0]
}

func TestBuildTreeShape(t *testing.T) {
	root := buildTree([]int{0, 1, 0})
	assert.Equal(t, "- n0\n  - n1\n    - n2: c\n  - n3\n", RenderTree(root))
	assert.Equal(t, 4, strings.Count(RenderTree(root), "\n"))
}
