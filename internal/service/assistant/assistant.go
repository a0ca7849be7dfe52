package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/affibot/internal/config"
	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/internal/observability"
	"github.com/sandevgo/affibot/internal/service/session"
	"github.com/sandevgo/affibot/pkg/keylock"
	"github.com/sandevgo/affibot/pkg/log"
)

const (
	kindAnswer  = "answer"
	kindSummary = "summary"
)

// PromptBuilder returns the system prompt shared by the answer and summary calls.
type PromptBuilder interface {
	Build() string
}

// TurnResult reports what a completed turn produced. A failed summary or save
// does not fail the turn: the user still gets the answer and the previous
// summary stays in place.
type TurnResult struct {
	Answer     string
	Summary    string
	Persisted  bool
	SummaryErr error
	SaveErr    error
}

type Assistant struct {
	ai      core.CompletionService
	store   core.ContextStore
	prompt  PromptBuilder
	locks   *keylock.Locker
	budget  *Budget
	metrics *observability.Metrics

	maxTokens int
	timeout   time.Duration
}

func NewAssistant(
	appCfg *config.AppConfig,
	ai core.CompletionService,
	store core.ContextStore,
	prompt PromptBuilder,
	locks *keylock.Locker,
	metrics *observability.Metrics,
) *Assistant {
	return &Assistant{
		ai:        ai,
		store:     store,
		prompt:    prompt,
		locks:     locks,
		budget:    NewBudget(appCfg.MaxContextTokens),
		metrics:   metrics,
		maxTokens: appCfg.CompletionMaxTokens,
		timeout:   appCfg.CompletionTimeout,
	}
}

// WithBudget replaces the context budget.
func (a *Assistant) WithBudget(b *Budget) *Assistant {
	a.budget = b
	return a
}

// GenerateAnswer asks the model for a reply to query given the user's prior summary.
func (a *Assistant) GenerateAnswer(ctx context.Context, priorContext, query string) (string, error) {
	content := fmt.Sprintf("Previous Context: %s\n\nNew Query: %s", priorContext, query)
	return a.complete(ctx, kindAnswer, content)
}

// GenerateSummary asks the model to fold the latest exchange into a new summary
// that replaces priorContext.
func (a *Assistant) GenerateSummary(ctx context.Context, priorContext, query, reply string) (string, error) {
	content := fmt.Sprintf(
		"Create a summary of the conversation:\nPrevious Context: %s\nUser: %s\nAI: %s",
		priorContext, query, reply,
	)
	return a.complete(ctx, kindSummary, content)
}

// Turn runs one exchange for the session's user. Turns of the same user are
// serialized so each one reads the summary the previous one wrote.
func (a *Assistant) Turn(ctx context.Context, sess *session.Session, query string) (TurnResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return TurnResult{}, core.ErrEmptyQuery
	}

	ctx = log.WithSession(ctx, sess.ID, sess.Username)
	logger := log.FromCtx(ctx)
	started := time.Now()

	unlock, err := a.locks.Lock(ctx, sess.Username)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to lock user: %w", err)
	}
	defer unlock()

	if err := a.store.EnsureUser(ctx, sess.Username); err != nil {
		a.countStoreError("ensure_user")
		return TurnResult{}, err
	}

	prior, err := a.store.LoadContext(ctx, sess.Username)
	if err != nil {
		a.countStoreError("load_context")
		return TurnResult{}, err
	}

	prior, err = a.budget.Apply(prior)
	if err != nil {
		logger.Warn().Err(err).Msg("context budget unavailable, using full summary")
	}

	answer, err := a.GenerateAnswer(ctx, prior, query)
	if err != nil {
		a.countTurn("failed")
		return TurnResult{}, err
	}

	result := TurnResult{Answer: answer}

	summary, err := a.GenerateSummary(ctx, prior, query, answer)
	switch {
	case err != nil:
		result.SummaryErr = err
		logger.Warn().Err(err).Msg("summary generation failed, keeping previous summary")
	default:
		result.Summary = summary
		if err := a.store.SaveContext(ctx, sess.Username, summary); err != nil {
			result.SaveErr = err
			a.countStoreError("save_context")
			logger.Error().Err(err).Msg("failed to persist summary")
		} else {
			result.Persisted = true
		}
	}

	sess.Append(
		core.Message{Role: core.RoleUser, Content: query},
		core.Message{Role: core.RoleAssistant, Content: answer},
	)

	outcome := "ok"
	switch {
	case result.SummaryErr != nil:
		outcome = "summary_failed"
	case result.SaveErr != nil:
		outcome = "save_failed"
	}
	a.countTurn(outcome)
	if a.metrics != nil {
		a.metrics.TurnDuration.Observe(time.Since(started).Seconds())
	}

	logger.Debug().
		Str("outcome", outcome).
		Dur("took", time.Since(started)).
		Msg("turn complete")
	return result, nil
}

func (a *Assistant) complete(ctx context.Context, kind, content string) (string, error) {
	cctx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := a.ai.Complete(cctx, core.CompletionRequest{
		SystemPrompt: a.prompt.Build(),
		UserContent:  content,
		MaxTokens:    a.maxTokens,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%s call timed out after %s: %w", kind, a.timeout, err)
		}
		if !errors.Is(err, core.ErrGeneration) {
			err = fmt.Errorf("%w: %w", core.ErrGeneration, err)
		}
	}

	if a.metrics != nil {
		a.metrics.ObserveGeneration(kind, time.Since(started), err)
	}
	return text, err
}

func (a *Assistant) countTurn(outcome string) {
	if a.metrics != nil {
		a.metrics.Turns.WithLabelValues(outcome).Inc()
	}
}

func (a *Assistant) countStoreError(op string) {
	if a.metrics != nil {
		a.metrics.StoreErrors.WithLabelValues(op).Inc()
	}
}
