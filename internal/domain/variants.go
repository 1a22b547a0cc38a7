package domain

import "encoding/json"

// Typed payloads for the known reply tags. Field names follow the backend's
// wire format; every field is optional on the wire and empty values mean
// "absent".

// Clarification asks the user to narrow a query.
type Clarification struct {
	Message   string   `json:"message"`
	Questions []string `json:"questions"`
}

// CaseRef is a case row as returned by search and listing replies.
type CaseRef struct {
	ID               string `json:"Id"`
	CaseNumber       string `json:"CaseNumber"`
	Subject          string `json:"Subject"`
	Status           string `json:"Status"`
	Priority         string `json:"Priority"`
	Description      string `json:"Description"`
	LastModifiedDate string `json:"LastModifiedDate"`
}

// CaseSearchResults lists candidate cases for a free-text search.
type CaseSearchResults struct {
	Message    string    `json:"message"`
	Candidates []CaseRef `json:"candidates"`
}

// CaseStatus reports the status of a single case.
type CaseStatus struct {
	CaseNumber string `json:"case_number"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	Subject    string `json:"subject"`
	CaseSource string `json:"case_source"`
}

// InProgressCases lists open cases.
type InProgressCases struct {
	Count   int       `json:"count"`
	Message string    `json:"message"`
	Cases   []CaseRef `json:"cases"`
}

// CaseResponse is the multi-section case summary.
type CaseResponse struct {
	CaseNumber                         string          `json:"case_number"`
	CaseType                           string          `json:"case_type"`
	CaseSource                         string          `json:"case_source"`
	CaseSummary                        string          `json:"case_summary"`
	TechnicalSummary                   string          `json:"technical_summary"`
	TroubleshootingSteps               []string        `json:"troubleshooting_steps"`
	NextActions                        []string        `json:"next_actions"`
	AssumptionsAndGaps                 []string        `json:"assumptions_and_gaps"`
	Tree                               json.RawMessage `json:"tree"`
	PromptKnowledgeArticleConfirmation string          `json:"prompt_knowledge_article_confirmation"`
}

// TreeRoot parses the optional tree. It returns nil when no tree is present.
func (c CaseResponse) TreeRoot() *TreeNode {
	return ParseTree(c.Tree)
}

// Author is the CreatedBy reference on activity rows.
type Author struct {
	Name string `json:"Name"`
}

// AuthorName returns the author's name, or "" when the reference is missing.
func AuthorName(a *Author) string {
	if a == nil {
		return ""
	}
	return a.Name
}

// CaseComment is one comment on a case.
type CaseComment struct {
	CommentBody string  `json:"CommentBody"`
	CreatedDate string  `json:"CreatedDate"`
	CreatedBy   *Author `json:"CreatedBy"`
}

// CaseComments lists comments for a case.
type CaseComments struct {
	CaseID     string        `json:"case_id"`
	CaseNumber string        `json:"case_number"`
	Message    string        `json:"message"`
	Comments   []CaseComment `json:"comments"`
}

// FieldChange is one field-history row.
type FieldChange struct {
	Field       string  `json:"Field"`
	OldValue    string  `json:"OldValue"`
	NewValue    string  `json:"NewValue"`
	CreatedDate string  `json:"CreatedDate"`
	CreatedBy   *Author `json:"CreatedBy"`
}

// CaseHistory lists field changes for a case.
type CaseHistory struct {
	CaseID     string        `json:"case_id"`
	CaseNumber string        `json:"case_number"`
	Message    string        `json:"message"`
	History    []FieldChange `json:"history"`
}

// FeedItem is one activity-feed row.
type FeedItem struct {
	Body        string  `json:"Body"`
	Type        string  `json:"Type"`
	CreatedDate string  `json:"CreatedDate"`
	CreatedBy   *Author `json:"CreatedBy"`
}

// CaseFeed lists feed activity for a case.
type CaseFeed struct {
	CaseID     string     `json:"case_id"`
	CaseNumber string     `json:"case_number"`
	Message    string     `json:"message"`
	Feed       []FeedItem `json:"feed"`
}

// FollowupAnswer answers a question about the case in context.
type FollowupAnswer struct {
	NeedsClarification      bool     `json:"needs_clarification"`
	Answer                  string   `json:"answer"`
	FollowUpQuestions       []string `json:"follow_up_questions"`
	Citations               []string `json:"citations"`
	StoredAsLevel2Knowledge bool     `json:"stored_as_level2_knowledge"`
}

// KnowledgeArticle carries a knowledge-article draft as an opaque object.
type KnowledgeArticle struct {
	Article json.RawMessage `json:"article"`
}

// OK is a plain acknowledgement.
type OK struct {
	Message string `json:"message"`
}

// ErrorReply is a backend-reported error.
type ErrorReply struct {
	Error      string `json:"error"`
	CaseNumber string `json:"case_number"`
}

// SalesforceHealth is the reply of the backend health check.
type SalesforceHealth struct {
	OK       bool           `json:"ok"`
	Message  string         `json:"message"`
	Error    string         `json:"error"`
	Identity map[string]any `json:"identity"`
}
