package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantType  Tag
		wantSess  string
		wantKnown bool
	}{
		{"known tag", `{"type":"ok","message":"done","session_id":"s1"}`, TagOK, "s1", true},
		{"unknown tag", `{"type":"technical_followup","session_id":"s2"}`, Tag("technical_followup"), "s2", false},
		{"missing type", `{"message":"hi"}`, "", "", false},
		{"non-string type", `{"type":42,"session_id":7}`, "", "", false},
		{"surrounding whitespace", "  \n{\"type\":\"error\",\"error\":\"x\"}\n", TagError, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := DecodeResponse([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, resp.Type)
			assert.Equal(t, tt.wantSess, resp.SessionID)
			assert.Equal(t, tt.wantKnown, resp.Known())
		})
	}
}

func TestDecodeResponseRejectsNonObjects(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`, `"text"`, `42`, `<html>`} {
		_, err := DecodeResponse([]byte(body))
		assert.ErrorIs(t, err, ErrDecode, "body %q", body)
	}
}

func TestResponseDecodeTyped(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{
		"type": "case_comments",
		"case_number": "00001234",
		"comments": [
			{"CommentBody": "Rebooted", "CreatedDate": "2024-03-01T10:00:00.000+0000", "CreatedBy": {"Name": "Ana"}},
			{"CommentBody": "", "CreatedBy": null}
		]
	}`))
	require.NoError(t, err)

	var payload CaseComments
	require.NoError(t, resp.Decode(&payload))
	assert.Equal(t, "00001234", payload.CaseNumber)
	require.Len(t, payload.Comments, 2)
	assert.Equal(t, "Ana", AuthorName(payload.Comments[0].CreatedBy))
	assert.Equal(t, "", AuthorName(payload.Comments[1].CreatedBy))
}

func TestResponseIndented(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"type":"x","a":[1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"type\": \"x\",\n  \"a\": [\n    1,\n    2\n  ]\n}", resp.Indented())

	var nilResp *Response
	assert.Empty(t, nilResp.Indented())
	assert.False(t, nilResp.Known())
	assert.Equal(t, "not json", IndentJSON([]byte("not json")))
}

func TestEntryRole(t *testing.T) {
	assert.Equal(t, RoleUser, NewUserTurn("1", "hi").Role())
	assert.Equal(t, RoleAssistant, NewPlaceholder("2").Role())
	assert.Equal(t, RoleAssistant, NewResult("3", &Response{}).Role())
	assert.Equal(t, RoleAssistant, NewPlainText("4", "oops", true).Role())
	assert.Equal(t, "placeholder", KindPlaceholder.String())
}
