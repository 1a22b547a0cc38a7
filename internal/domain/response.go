package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tag identifies the shape of a backend reply (the "type" field).
type Tag string

// Known reply tags. Backends may send tags outside this set; those are still
// valid replies and render as a structural dump.
const (
	TagClarification     Tag = "clarification"
	TagCaseSearchResults Tag = "case_search_results"
	TagCaseStatus        Tag = "case_status"
	TagInProgressCases   Tag = "in_progress_cases"
	TagCaseResponse      Tag = "case_response"
	TagCaseComments      Tag = "case_comments"
	TagCaseHistory       Tag = "case_history"
	TagCaseFeed          Tag = "case_feed"
	TagFollowupAnswer    Tag = "followup_answer"
	TagKnowledgeArticle  Tag = "knowledge_article"
	TagOK                Tag = "ok"
	TagError             Tag = "error"
	TagSalesforceHealth  Tag = "salesforce_health"
)

// KnownTags lists every tag with a dedicated rendering.
var KnownTags = []Tag{
	TagClarification,
	TagCaseSearchResults,
	TagCaseStatus,
	TagInProgressCases,
	TagCaseResponse,
	TagCaseComments,
	TagCaseHistory,
	TagCaseFeed,
	TagFollowupAnswer,
	TagKnowledgeArticle,
	TagOK,
	TagError,
	TagSalesforceHealth,
}

// Known reports whether t has a dedicated rendering.
func (t Tag) Known() bool {
	for _, k := range KnownTags {
		if k == t {
			return true
		}
	}
	return false
}

// Response is one decoded backend reply. Raw keeps the whole object so that
// typed payloads can be decoded lazily and unknown shapes can be dumped.
type Response struct {
	Type      Tag
	SessionID string
	Raw       json.RawMessage
}

// DecodeResponse parses a backend reply. Any JSON object is accepted; the
// type and session_id fields are read leniently (non-string values are
// treated as absent).
func DecodeResponse(data []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(data)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil || fields == nil {
		if err == nil {
			err = fmt.Errorf("got null")
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	resp := &Response{Raw: append(json.RawMessage(nil), trimmed...)}
	var s string
	if json.Unmarshal(fields["type"], &s) == nil {
		resp.Type = Tag(s)
	}
	s = ""
	if json.Unmarshal(fields["session_id"], &s) == nil {
		resp.SessionID = s
	}
	return resp, nil
}

// Known reports whether the reply's tag has a dedicated rendering.
func (r *Response) Known() bool {
	return r != nil && r.Type.Known()
}

// Decode unmarshals the raw reply into a typed payload.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Raw) == 0 {
		return fmt.Errorf("%w: empty reply", ErrDecode)
	}
	return json.Unmarshal(r.Raw, v)
}

// Generic returns the reply as a generic JSON value for schema checks and dumps.
func (r *Response) Generic() (map[string]any, error) {
	var m map[string]any
	if err := r.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// Indented returns the raw reply pretty-printed with two-space indentation.
func (r *Response) Indented() string {
	if r == nil {
		return ""
	}
	return IndentJSON(r.Raw)
}

// IndentJSON pretty-prints raw JSON; invalid input is returned unchanged.
func IndentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
