package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"casedesk/internal/domain"
)

// Property: RenderTree emits exactly one line per node.
func TestRenderTreeLineCountProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("line count equals node count", prop.ForAll(
		func(parents []int) bool {
			root := buildTree(parents)
			out := RenderTree(root)
			return strings.Count(out, "\n") == root.Count() && root.Count() == len(parents)+1
		},
		gen.SliceOf(gen.IntRange(0, 1<<16)),
	))

	properties.TestingRun(t)
}

// Property: any object with an unrecognized type renders as a dump.
func TestInterpretUnknownTagProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("unknown tags fall back to the dump", prop.ForAll(
		func(tag string, keys []string, values []string) bool {
			obj := map[string]any{"type": tag, "session_id": "s"}
			for i := 0; i < len(keys) && i < len(values); i++ {
				if keys[i] != "type" {
					obj[keys[i]] = values[i]
				}
			}
			raw, err := json.Marshal(obj)
			if err != nil {
				return false
			}
			resp, err := domain.DecodeResponse(raw)
			if err != nil {
				return false
			}
			v := Interpret(resp, nil)
			return v.IsDump() && v.Invalid == "" && len(v.Actions()) == 0
		},
		gen.AlphaString().SuchThat(func(s string) bool { return !domain.Tag(s).Known() }),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// Property: known tags never break the interpreter, whatever their fields
// hold. A wrongly typed field is dropped on its own; a reply that still
// cannot be decoded degrades to the dump.
func TestInterpretKnownTagTotalProperty(t *testing.T) {
	fields := []string{
		"message", "questions", "candidates", "case_number", "status", "count",
		"cases", "comments", "history", "feed", "answer", "article", "error",
		"tree", "identity", "troubleshooting_steps",
	}
	values := []any{
		nil, true, 0, 3.5, "text", []any{}, []any{"a", nil}, []any{map[string]any{}},
		map[string]any{}, map[string]any{"title": 1, "children": "x"},
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("interpret is total over known tags", prop.ForAll(
		func(ti, fi, vi int) bool {
			tag := domain.KnownTags[ti%len(domain.KnownTags)]
			field := fields[fi%len(fields)]
			raw, err := json.Marshal(map[string]any{"type": tag, field: values[vi%len(values)]})
			if err != nil {
				return false
			}
			resp, err := domain.DecodeResponse(raw)
			if err != nil {
				return false
			}
			v := Interpret(resp, func(string) {})
			if v.IsDump() {
				return v.Invalid != ""
			}
			for _, d := range v.Dropped {
				if d != field {
					return false
				}
			}
			return v.Tag == tag
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
