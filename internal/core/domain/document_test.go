package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestDocumentStatus_IsValid(t *testing.T) {
	assert.True(t, StatusProcessing.IsValid())
	assert.True(t, StatusReady.IsValid())
	assert.True(t, StatusFailed.IsValid())
	assert.False(t, DocumentStatus("queued").IsValid())
}

func TestDocumentStatus_Label(t *testing.T) {
	tests := []struct {
		status DocumentStatus
		want   string
	}{
		{StatusReady, "Processed"},
		{StatusProcessing, "Processing…"},
		{StatusFailed, "Failed"},
		{DocumentStatus("weird"), "Failed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Label())
		})
	}
}

func TestDocument_DisplayName(t *testing.T) {
	assert.Equal(t, "(untitled)", Document{}.DisplayName())
	assert.Equal(t, "(untitled)", Document{Filename: strPtr("")}.DisplayName())
	assert.Equal(t, "bert.pdf", Document{Filename: strPtr("bert.pdf")}.DisplayName())
}

func TestDocument_PagesAndYear(t *testing.T) {
	doc := Document{
		PageCount: intPtr(12),
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 12, doc.Pages())
	assert.Equal(t, "2024", doc.Year())

	assert.Equal(t, 0, Document{}.Pages())
	assert.Empty(t, Document{}.Year())
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "12345678", ShortID("1234567890ab"))
	assert.Equal(t, "12345678", Document{ID: "1234567890ab"}.ShortID())
}

func TestReadyDocuments(t *testing.T) {
	docs := []Document{
		{ID: "a", Status: StatusProcessing},
		{ID: "b", Status: StatusReady},
		{ID: "c", Status: StatusFailed},
		{ID: "d", Status: StatusReady},
	}

	ready := ReadyDocuments(docs)

	require.Len(t, ready, 2)
	assert.Equal(t, "b", ready[0].ID)
	assert.Equal(t, "d", ready[1].ID)
}

func TestFindDocument(t *testing.T) {
	docs := []Document{{ID: "a"}, {ID: "b"}}

	doc, ok := FindDocument(docs, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", doc.ID)

	_, ok = FindDocument(docs, "z")
	assert.False(t, ok)
}

func TestDocument_DecodesBackendRow(t *testing.T) {
	raw := `{
		"doc_id": "3f1c9a4e-0000-0000-0000-000000000000",
		"filename": null,
		"status": "ready",
		"error": null,
		"page_count": 12,
		"created_at": "2024-05-01T10:00:00Z",
		"updated_at": "2024-05-01T10:01:00Z"
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "3f1c9a4e-0000-0000-0000-000000000000", doc.ID)
	assert.Nil(t, doc.Filename)
	assert.True(t, doc.Ready())
	assert.Equal(t, 12, doc.Pages())
	assert.Equal(t, "2024", doc.Year())
}
