package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/textquiz/internal/logging"
	"github.com/abhisek/textquiz/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an
// event and traces it to the process log.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	logger    *logging.Logger
}

// WithLogging wraps a Provider with event logging. repo may be nil when no
// database is open; the call is then only traced.
func WithLogging(p Provider, provider string, repo store.EventRepo, logger *logging.Logger) Provider {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &LoggingProvider{inner: p, provider: provider, eventRepo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = resp.Text
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Error("llm: %s %s failed after %dms: %v", l.provider, purpose, latencyMs, err)
	} else {
		l.logger.Debug("llm: %s %s ok in %dms (%d in / %d out)",
			l.provider, purpose, latencyMs, data.InputTokens, data.OutputTokens)
	}

	if l.eventRepo == nil {
		return resp, err
	}

	// Recording failures never fail the request.
	if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
		l.logger.Error("llm: failed to record request event: %v", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
