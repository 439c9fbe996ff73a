package llm

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/textquiz/internal/logging"
	"github.com/abhisek/textquiz/internal/store"
)

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(
		MockResponse{Text: "# Notes", Usage: Usage{InputTokens: 12, OutputTokens: 34}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	var buf bytes.Buffer
	p := WithLogging(mock, "gemini", s.EventRepo(), logging.NewWriter("debug", &buf))

	ctx := WithPurpose(context.Background(), PurposeNotes)
	req := Request{System: "be brief", Messages: []Message{{Role: RoleUser, Content: "Cells divide."}}}

	resp, err := p.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "# Notes", resp.Text)

	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	failed, ok := events[0], events[1]
	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "rate limited")

	assert.True(t, ok.Success)
	assert.Equal(t, "gemini", ok.Provider)
	assert.Equal(t, "mock", ok.Model)
	assert.Equal(t, "notes", ok.Purpose)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, 34, ok.OutputTokens)
	assert.Equal(t, "[system]\nbe brief\n\n[user]\nCells divide.", ok.RequestBody)
	assert.Equal(t, "# Notes", ok.ResponseBody)

	assert.Contains(t, buf.String(), "gemini notes ok")
	assert.Contains(t, buf.String(), "gemini notes failed")
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "x"}), "mock", nil, nil)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "x", resp.Text)
}
