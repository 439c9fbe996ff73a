package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/textquiz/internal/quizgen"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // created_at >= From
	To     time.Time // created_at <= To
}

// apply adds the filters in opts to sel.
func (o QueryOpts) apply(sel *entsql.Selector) *entsql.Selector {
	if o.After > 0 {
		sel.Where(entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		sel.Where(entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		sel.Where(entsql.GTE("created_at", o.From.UnixMilli()))
	}
	if !o.To.IsZero() {
		sel.Where(entsql.LTE("created_at", o.To.UnixMilli()))
	}
	if o.Limit > 0 {
		sel.Limit(o.Limit)
	}
	return sel
}

// QuizRecord is one generated quiz as persisted.
type QuizRecord struct {
	ID            string
	Sequence      int64
	CreatedAt     time.Time
	NumRequested  int
	QuestionCount int
	TextPreview   string
	Quiz          quizgen.Quiz
}

// QuizRepo stores generated quizzes.
type QuizRepo interface {
	// Save assigns ID (when empty), Sequence and CreatedAt (when zero) and
	// inserts rec.
	Save(ctx context.Context, rec *QuizRecord) error

	// List returns quizzes newest first.
	List(ctx context.Context, opts QueryOpts) ([]QuizRecord, error)

	// Get returns the quiz with id, or nil if it does not exist.
	Get(ctx context.Context, id string) (*QuizRecord, error)

	// Delete removes the quiz with id and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token use over a group of events.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns the event with id, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates events per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates events per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
