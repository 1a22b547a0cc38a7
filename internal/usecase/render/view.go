package render

import "casedesk/internal/domain"

// QuickSend submits text exactly as if the user had typed it.
type QuickSend func(text string)

// View is the presentational structure of one backend reply. It holds no
// styling; printers decide how each part looks.
type View struct {
	Tag      domain.Tag
	Lead     string   // headline text
	Badges   []Badge  // short labeled facts shown under the headline
	Notes    []string // secondary lines (backend messages, validation notes)
	Sections []Section
	Error    string // backend-reported error text
	Dump     string // indented JSON for replies without a dedicated rendering
	Invalid  string   // why a known tag fell back to Dump
	Dropped  []string // malformed fields left out of a dedicated rendering
}

type Badge struct {
	Label string
	Value string
}

// Section is a titled block of a view.
type Section struct {
	Title   string
	Text    string
	Items   []Item
	Ordered bool
	Pre     string // preformatted text (trees, JSON)
	Actions []Action
}

// Item is one row of a section list.
type Item struct {
	Text   string
	Title  string
	Meta   string
	Body   string
	Badge  string
	Action *Action
}

// Action is a quick-reply control. Invoking it sends Text through the same
// path as a typed submission.
type Action struct {
	Label    string
	Text     string
	Disabled bool

	send QuickSend
}

// Invoke fires the action. It reports false when the action is disabled or
// has no callback.
func (a Action) Invoke() bool {
	if a.Disabled || a.send == nil {
		return false
	}
	a.send(a.Text)
	return true
}

// Actions lists every action of the view in display order.
func (v View) Actions() []Action {
	var out []Action
	for _, s := range v.Sections {
		for _, it := range s.Items {
			if it.Action != nil {
				out = append(out, *it.Action)
			}
		}
		out = append(out, s.Actions...)
	}
	return out
}

// IsDump reports whether the view is a raw structural dump.
func (v View) IsDump() bool {
	return v.Dump != ""
}
