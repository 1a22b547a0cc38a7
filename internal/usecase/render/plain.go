package render

import (
	"fmt"
	"strings"
)

// PlainText prints a view without styling. Actions are shown as
// "[label -> text]" since a plain printer cannot fire them.
func PlainText(v View) string {
	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}

	if v.Lead != "" {
		line(v.Lead)
	}
	if len(v.Badges) > 0 {
		parts := make([]string, 0, len(v.Badges))
		for _, b := range v.Badges {
			parts = append(parts, b.Label+": "+b.Value)
		}
		line(strings.Join(parts, " | "))
	}
	for _, n := range v.Notes {
		line(n)
	}
	if v.Error != "" {
		line("Error: " + v.Error)
	}

	for _, s := range v.Sections {
		line("")
		line("## " + s.Title)
		if s.Text != "" {
			line(s.Text)
		}
		for i, it := range s.Items {
			marker := "-"
			if s.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			line(marker + " " + plainItem(it))
			if it.Body != "" {
				line("  " + it.Body)
			}
		}
		if s.Pre != "" {
			line(strings.TrimRight(s.Pre, "\n"))
		}
		if len(s.Actions) > 0 {
			parts := make([]string, 0, len(s.Actions))
			for _, a := range s.Actions {
				parts = append(parts, plainAction(a))
			}
			line(strings.Join(parts, " "))
		}
	}

	if v.Dump != "" {
		if len(v.Sections) > 0 || sb.Len() > 0 {
			line("")
		}
		line(v.Dump)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func plainItem(it Item) string {
	var parts []string
	if it.Action != nil {
		parts = append(parts, plainAction(*it.Action))
	}
	if it.Badge != "" {
		parts = append(parts, "<"+it.Badge+">")
	}
	for _, s := range []string{it.Title, it.Text, it.Meta} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func plainAction(a Action) string {
	if a.Disabled {
		return "[" + a.Label + "]"
	}
	return "[" + a.Label + " -> " + a.Text + "]"
}
