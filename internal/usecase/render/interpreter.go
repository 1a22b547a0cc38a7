package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"casedesk/internal/domain"
)

// Row and field defaults for activity collections.
const (
	UnknownUser   = "Unknown User"
	SystemAuthor  = "System"
	NoCommentBody = "No comment body"
	EmptyValue    = "(empty)"
	FeedActivity  = "Activity"
)

// SummarizePrompt is the quick-send text for a case row.
func SummarizePrompt(caseNumber string) string {
	return "Summarize case " + caseNumber
}

// Interpret turns a reply into its presentational structure. It is total:
// every reply yields a view, and replies without a usable dedicated rendering
// fall back to a structural dump. send may be nil, which leaves actions inert.
func Interpret(resp *domain.Response, send QuickSend) View {
	if resp == nil {
		return View{Dump: "null"}
	}
	if !resp.Known() {
		return dumpView(resp, "")
	}

	data, err := resp.Generic()
	if err != nil {
		return dumpView(resp, err.Error())
	}
	var dropped []string
	if err := validateShape(resp.Type, data); err != nil {
		dropped = malformedFields(resp.Type, data)
		if len(dropped) == 0 {
			return dumpView(resp, fmt.Sprintf("%s reply has an unexpected shape: %v", resp.Type, err))
		}
		resp, err = withoutFields(resp, data, dropped)
		if err != nil {
			return dumpView(resp, err.Error())
		}
	}

	b := builder{send: send}
	var v View
	switch resp.Type {
	case domain.TagClarification:
		v, err = decodeInto(resp, b.clarification)
	case domain.TagCaseSearchResults:
		v, err = decodeInto(resp, b.caseSearchResults)
	case domain.TagCaseStatus:
		v, err = decodeInto(resp, b.caseStatus)
	case domain.TagInProgressCases:
		v, err = decodeInto(resp, b.inProgressCases)
	case domain.TagCaseResponse:
		v, err = decodeInto(resp, b.caseResponse)
	case domain.TagCaseComments:
		v, err = decodeInto(resp, b.caseComments)
	case domain.TagCaseHistory:
		v, err = decodeInto(resp, b.caseHistory)
	case domain.TagCaseFeed:
		v, err = decodeInto(resp, b.caseFeed)
	case domain.TagFollowupAnswer:
		v, err = decodeInto(resp, b.followupAnswer)
	case domain.TagKnowledgeArticle:
		v, err = decodeInto(resp, b.knowledgeArticle)
	case domain.TagOK:
		v, err = decodeInto(resp, b.ok)
	case domain.TagError:
		v, err = decodeInto(resp, b.errorReply)
	case domain.TagSalesforceHealth:
		v, err = decodeInto(resp, b.salesforceHealth)
	default:
		return dumpView(resp, "")
	}
	if err != nil {
		return dumpView(resp, fmt.Sprintf("%s reply could not be decoded: %v", resp.Type, err))
	}
	v.Tag = resp.Type
	if len(dropped) > 0 {
		v.Dropped = dropped
		v.Notes = append(v.Notes, "Ignored malformed fields: "+strings.Join(dropped, ", "))
	}
	return v
}

// withoutFields returns a copy of resp with the named fields removed, so the
// rest of the reply renders with per-field defaults.
func withoutFields(resp *domain.Response, data map[string]any, fields []string) (*domain.Response, error) {
	pruned := make(map[string]any, len(data))
	for k, v := range data {
		pruned[k] = v
	}
	for _, k := range fields {
		delete(pruned, k)
	}
	raw, err := json.Marshal(pruned)
	if err != nil {
		return resp, fmt.Errorf("%s reply could not be re-encoded: %w", resp.Type, err)
	}
	return &domain.Response{Type: resp.Type, SessionID: resp.SessionID, Raw: raw}, nil
}

func decodeInto[T any](resp *domain.Response, build func(T) View) (View, error) {
	var payload T
	if err := resp.Decode(&payload); err != nil {
		return View{}, err
	}
	return build(payload), nil
}

func dumpView(resp *domain.Response, invalid string) View {
	v := View{Tag: resp.Type, Dump: resp.Indented(), Invalid: invalid}
	if invalid != "" {
		v.Notes = append(v.Notes, invalid)
	}
	return v
}

type builder struct {
	send QuickSend
}

func (b builder) action(label, text string, disabled bool) Action {
	return Action{Label: label, Text: text, Disabled: disabled, send: b.send}
}

func (b builder) caseAction(caseNumber string) *Action {
	label := caseNumber
	if label == "" {
		label = "—"
	}
	a := b.action(label, SummarizePrompt(caseNumber), caseNumber == "")
	return &a
}

func textItems(values []string) []Item {
	items := make([]Item, 0, len(values))
	for _, s := range values {
		items = append(items, Item{Text: s})
	}
	return items
}

func notes(msg string) []string {
	if msg == "" {
		return nil
	}
	return []string{msg}
}

func badge(label, value string) []Badge {
	if value == "" {
		return nil
	}
	return []Badge{{Label: label, Value: value}}
}

func (b builder) clarification(p domain.Clarification) View {
	return View{
		Lead: p.Message,
		Sections: []Section{{
			Title: "Follow-up questions",
			Items: textItems(p.Questions),
		}},
	}
}

func (b builder) caseSearchResults(p domain.CaseSearchResults) View {
	items := make([]Item, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		items = append(items, Item{
			Text:   c.Subject,
			Meta:   parenthesize(c.Status),
			Action: b.caseAction(c.CaseNumber),
		})
	}
	return View{
		Lead:     p.Message,
		Sections: []Section{{Title: "Matches", Items: items}},
	}
}

func (b builder) caseStatus(p domain.CaseStatus) View {
	v := View{Lead: fmt.Sprintf("Status of case %s: %s", p.CaseNumber, p.Status)}
	v.Badges = append(v.Badges, badge("Subject", p.Subject)...)
	v.Badges = append(v.Badges, badge("Priority", p.Priority)...)
	v.Badges = append(v.Badges, badge("Source", p.CaseSource)...)
	return v
}

func (b builder) inProgressCases(p domain.InProgressCases) View {
	items := make([]Item, 0, len(p.Cases))
	for _, c := range p.Cases {
		meta := c.Status
		if c.Priority != "" {
			meta += ", " + c.Priority
		}
		items = append(items, Item{
			Text:   c.Subject,
			Meta:   parenthesize(meta),
			Action: b.caseAction(c.CaseNumber),
		})
	}
	return View{
		Lead:     fmt.Sprintf("In progress cases: %d", p.Count),
		Notes:    notes(p.Message),
		Sections: []Section{{Title: "Cases", Items: items}},
	}
}

func (b builder) caseResponse(p domain.CaseResponse) View {
	v := View{Lead: "Case " + p.CaseNumber}
	v.Badges = append(v.Badges, badge("Type", p.CaseType)...)
	v.Badges = append(v.Badges, badge("Source", p.CaseSource)...)

	v.Sections = []Section{
		{Title: "Case summary", Text: p.CaseSummary},
		{Title: "Technical summary", Text: p.TechnicalSummary},
		{Title: "Troubleshooting steps", Items: textItems(p.TroubleshootingSteps), Ordered: true},
		{Title: "Next immediate actions", Items: textItems(p.NextActions), Ordered: true},
	}
	if len(p.AssumptionsAndGaps) > 0 {
		v.Sections = append(v.Sections, Section{Title: "Assumptions & gaps", Items: textItems(p.AssumptionsAndGaps)})
	}
	if root := p.TreeRoot(); root != nil {
		v.Sections = append(v.Sections, Section{Title: "Tree view", Pre: RenderTree(root)})
	}
	if p.PromptKnowledgeArticleConfirmation != "" {
		v.Sections = append(v.Sections, Section{
			Title: "Knowledge article",
			Text:  p.PromptKnowledgeArticleConfirmation,
			Actions: []Action{
				b.action("Confirm", "confirm", false),
				b.action("Cancel", "cancel", false),
			},
		})
	}
	return v
}

func (b builder) caseComments(p domain.CaseComments) View {
	v := View{Lead: "Comments for Case " + p.CaseNumber, Notes: notes(p.Message)}
	if len(p.Comments) == 0 {
		return v
	}
	items := make([]Item, 0, len(p.Comments))
	for _, c := range p.Comments {
		items = append(items, Item{
			Title: orDefault(domain.AuthorName(c.CreatedBy), UnknownUser),
			Meta:  FormatTimestamp(c.CreatedDate),
			Body:  orDefault(c.CommentBody, NoCommentBody),
		})
	}
	v.Sections = []Section{{Title: fmt.Sprintf("Case Comments (%d)", len(items)), Items: items}}
	return v
}

func (b builder) caseHistory(p domain.CaseHistory) View {
	v := View{Lead: "History for Case " + p.CaseNumber, Notes: notes(p.Message)}
	if len(p.History) == 0 {
		return v
	}
	items := make([]Item, 0, len(p.History))
	for _, h := range p.History {
		items = append(items, Item{
			Title: h.Field,
			Text:  "by " + orDefault(domain.AuthorName(h.CreatedBy), UnknownUser),
			Meta:  FormatTimestamp(h.CreatedDate),
			Body:  fmt.Sprintf("From: %s  To: %s", orDefault(h.OldValue, EmptyValue), orDefault(h.NewValue, EmptyValue)),
		})
	}
	v.Sections = []Section{{Title: fmt.Sprintf("Case History (%d)", len(items)), Items: items}}
	return v
}

func (b builder) caseFeed(p domain.CaseFeed) View {
	v := View{Lead: "Feed for Case " + p.CaseNumber, Notes: notes(p.Message)}
	if len(p.Feed) == 0 {
		return v
	}
	items := make([]Item, 0, len(p.Feed))
	for _, f := range p.Feed {
		items = append(items, Item{
			Badge: orDefault(f.Type, FeedActivity),
			Title: orDefault(domain.AuthorName(f.CreatedBy), SystemAuthor),
			Meta:  FormatTimestamp(f.CreatedDate),
			Body:  f.Body,
		})
	}
	v.Sections = []Section{{Title: fmt.Sprintf("Case Feed (%d)", len(items)), Items: items}}
	return v
}

func (b builder) followupAnswer(p domain.FollowupAnswer) View {
	v := View{Lead: p.Answer}
	if p.StoredAsLevel2Knowledge {
		v.Badges = append(v.Badges, Badge{Label: "Knowledge", Value: "stored"})
	}
	if len(p.FollowUpQuestions) > 0 {
		v.Sections = append(v.Sections, Section{Title: "Follow-up questions", Items: textItems(p.FollowUpQuestions)})
	}
	if len(p.Citations) > 0 {
		v.Sections = append(v.Sections, Section{Title: "Citations", Items: textItems(p.Citations)})
	}
	return v
}

func (b builder) knowledgeArticle(p domain.KnowledgeArticle) View {
	article := "null"
	if len(p.Article) > 0 {
		article = domain.IndentJSON(p.Article)
	}
	return View{Sections: []Section{{Title: "Knowledge article draft", Pre: article}}}
}

func (b builder) ok(p domain.OK) View {
	return View{Lead: p.Message}
}

func (b builder) errorReply(p domain.ErrorReply) View {
	return View{Error: p.Error}
}

func (b builder) salesforceHealth(p domain.SalesforceHealth) View {
	status := "failed"
	if p.OK {
		status = "connected"
	}
	v := View{
		Lead:   p.Message,
		Badges: []Badge{{Label: "Salesforce", Value: status}},
		Error:  p.Error,
	}
	keys := make([]string, 0, len(p.Identity))
	for k := range p.Identity {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if val := identityValue(p.Identity[k]); val != "" {
			v.Badges = append(v.Badges, Badge{Label: k, Value: val})
		}
	}
	return v
}

func identityValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func parenthesize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return "(" + s + ")"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
