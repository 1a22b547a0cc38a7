package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"casedesk/internal/domain"
)

// Shape schemas check field types only. Every field is optional and may be
// null, matching what the backend emits for missing Salesforce values.
const (
	optString = `{"type": ["string", "null"]}`
	optBool   = `{"type": ["boolean", "null"]}`
	optNumber = `{"type": ["number", "null"]}`
	optObject = `{"type": ["object", "null"]}`
	optList   = `{"type": ["array", "null"], "items": {"type": ["string", "null"]}}`
	author    = `{"type": ["object", "null"], "properties": {"Name": ` + optString + `}}`
	caseRow   = `{"type": ["object", "null"], "properties": {
		"Id": ` + optString + `, "CaseNumber": ` + optString + `, "Subject": ` + optString + `,
		"Status": ` + optString + `, "Priority": ` + optString + `, "LastModifiedDate": ` + optString + `}}`
)

func rowsOf(row string) string {
	return `{"type": ["array", "null"], "items": ` + row + `}`
}

var shapeSchemas = map[domain.Tag]string{
	domain.TagClarification: `{"type": "object", "properties": {
		"message": ` + optString + `, "questions": ` + optList + `}}`,
	domain.TagCaseSearchResults: `{"type": "object", "properties": {
		"message": ` + optString + `, "candidates": ` + rowsOf(caseRow) + `}}`,
	domain.TagCaseStatus: `{"type": "object", "properties": {
		"case_number": ` + optString + `, "status": ` + optString + `, "priority": ` + optString + `,
		"subject": ` + optString + `, "case_source": ` + optString + `}}`,
	domain.TagInProgressCases: `{"type": "object", "properties": {
		"count": ` + optNumber + `, "message": ` + optString + `, "cases": ` + rowsOf(caseRow) + `}}`,
	domain.TagCaseResponse: `{"type": "object", "properties": {
		"case_number": ` + optString + `, "case_type": ` + optString + `, "case_source": ` + optString + `,
		"case_summary": ` + optString + `, "technical_summary": ` + optString + `,
		"troubleshooting_steps": ` + optList + `, "next_actions": ` + optList + `,
		"assumptions_and_gaps": ` + optList + `,
		"prompt_knowledge_article_confirmation": ` + optString + `}}`,
	domain.TagCaseComments: `{"type": "object", "properties": {
		"case_number": ` + optString + `, "message": ` + optString + `,
		"comments": ` + rowsOf(`{"type": ["object", "null"], "properties": {
			"CommentBody": `+optString+`, "CreatedDate": `+optString+`, "CreatedBy": `+author+`}}`) + `}}`,
	domain.TagCaseHistory: `{"type": "object", "properties": {
		"case_number": ` + optString + `, "message": ` + optString + `,
		"history": ` + rowsOf(`{"type": ["object", "null"], "properties": {
			"Field": `+optString+`, "OldValue": `+optString+`, "NewValue": `+optString+`,
			"CreatedDate": `+optString+`, "CreatedBy": `+author+`}}`) + `}}`,
	domain.TagCaseFeed: `{"type": "object", "properties": {
		"case_number": ` + optString + `, "message": ` + optString + `,
		"feed": ` + rowsOf(`{"type": ["object", "null"], "properties": {
			"Body": `+optString+`, "Type": `+optString+`, "CreatedDate": `+optString+`, "CreatedBy": `+author+`}}`) + `}}`,
	domain.TagFollowupAnswer: `{"type": "object", "properties": {
		"needs_clarification": ` + optBool + `, "answer": ` + optString + `,
		"follow_up_questions": ` + optList + `, "citations": ` + optList + `,
		"stored_as_level2_knowledge": ` + optBool + `}}`,
	domain.TagKnowledgeArticle: `{"type": "object"}`,
	domain.TagOK:               `{"type": "object", "properties": {"message": ` + optString + `}}`,
	domain.TagError: `{"type": "object", "properties": {
		"error": ` + optString + `, "case_number": ` + optString + `}}`,
	domain.TagSalesforceHealth: `{"type": "object", "properties": {
		"ok": ` + optBool + `, "message": ` + optString + `, "error": ` + optString + `,
		"identity": ` + optObject + `}}`,
}

var (
	compileOnce sync.Once
	compiled    map[domain.Tag]*jsonschema.Schema
	compileErrs map[domain.Tag]error
)

func compileSchemas() {
	compiled = make(map[domain.Tag]*jsonschema.Schema, len(shapeSchemas))
	compileErrs = make(map[domain.Tag]error)
	for tag, src := range shapeSchemas {
		schema, err := jsonschema.NewCompiler().Compile([]byte(src))
		if err != nil {
			compileErrs[tag] = fmt.Errorf("invalid schema for %s: %w", tag, err)
			continue
		}
		compiled[tag] = schema
	}
}

// validateShape checks a reply against the schema of its tag. Tags without a
// schema pass.
func validateShape(tag domain.Tag, data map[string]any) error {
	compileOnce.Do(compileSchemas)
	if err, ok := compileErrs[tag]; ok {
		return err
	}
	schema, ok := compiled[tag]
	if !ok {
		return nil
	}
	result := schema.Validate(data)
	if !result.IsValid() {
		return fmt.Errorf("%s", result.Error())
	}
	return nil
}

// malformedFields names the top-level fields of data that break the schema of
// tag on their own. Every property is optional, so each field can be checked
// in isolation.
func malformedFields(tag domain.Tag, data map[string]any) []string {
	compileOnce.Do(compileSchemas)
	schema, ok := compiled[tag]
	if !ok {
		return nil
	}
	var bad []string
	for k, v := range data {
		if !schema.Validate(map[string]any{k: v}).IsValid() {
			bad = append(bad, k)
		}
	}
	sort.Strings(bad)
	return bad
}
