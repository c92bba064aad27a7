package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/diff"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/script"
)

// Operation names
const (
	OpGenerate = "generate"
	OpSuggest  = "suggest"
)

// Result describes the outcome of a generate or suggest call
type Result struct {
	ScriptType models.ScriptType `json:"type"`
	Operation  string            `json:"operation"`
	Text       string            `json:"text"`
	Applied    bool              `json:"applied"`
	Diff       diff.Summary      `json:"diff"`
}

// Mediator runs generation calls against the workspace buffers. At most one
// call is outstanding per buffer. A result is applied only if the buffer has
// not changed since the call started and the caller is still waiting for it.
type Mediator struct {
	workspace *script.Workspace
	generator Generator
	toggle    *Toggle
	timeout   time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	pending map[models.ScriptType]context.CancelFunc
}

// NewMediator creates a mediator. A nil toggle means suggestions are always
// enabled; a zero timeout disables the per-call deadline.
func NewMediator(w *script.Workspace, g Generator, toggle *Toggle, timeout time.Duration, logger *zap.Logger) *Mediator {
	if g == nil {
		g = Disabled{}
	}
	if toggle == nil {
		toggle = NewToggle(true)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mediator{
		workspace: w,
		generator: g,
		toggle:    toggle,
		timeout:   timeout,
		logger:    logger,
		pending:   make(map[models.ScriptType]context.CancelFunc),
	}
}

// Toggle returns the shared suggestions setting
func (m *Mediator) Toggle() *Toggle {
	return m.toggle
}

// Pending reports whether a call is outstanding for t
func (m *Mediator) Pending(t models.ScriptType) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[t]
	return ok
}

// Cancel abandons the outstanding call for t, if any. Its result will not
// be applied.
func (m *Mediator) Cancel(t models.ScriptType) {
	m.mu.Lock()
	cancel, ok := m.pending[t]
	m.mu.Unlock()
	if ok {
		cancel()
	}
}

func (m *Mediator) begin(ctx context.Context, t models.ScriptType, op string) (context.Context, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.pending[t]; busy {
		return nil, nil, errors.NewAppError(errors.ErrCodeRequestInFlight,
			fmt.Sprintf("A request for the %s script is already running", t)).
			WithContext("operation", op)
	}

	var cancel context.CancelFunc
	if m.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	m.pending[t] = cancel

	finish := func() {
		cancel()
		m.mu.Lock()
		delete(m.pending, t)
		m.mu.Unlock()
	}
	return ctx, finish, nil
}

// Generate asks the backend for a new script from description and replaces
// buffer t with it
func (m *Mediator) Generate(ctx context.Context, t models.ScriptType, description string) (Result, error) {
	if !t.Valid() {
		return Result{}, errors.ValidationError(fmt.Sprintf("Unknown script type '%s'", t))
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return Result{}, errors.EmptyDescriptionError()
	}

	return m.run(ctx, t, OpGenerate, func(ctx context.Context, _ string) (string, error) {
		resp, err := m.generator.Generate(ctx, GenerateRequest{Description: description})
		return resp.Script, err
	})
}

// Suggest asks the backend to refine the current content of buffer t and
// replaces the buffer with the suggestion
func (m *Mediator) Suggest(ctx context.Context, t models.ScriptType) (Result, error) {
	if !t.Valid() {
		return Result{}, errors.ValidationError(fmt.Sprintf("Unknown script type '%s'", t))
	}
	if !m.toggle.Enabled() {
		return Result{}, errors.NewAppError(errors.ErrCodeAIDisabled, "AI suggestions are turned off")
	}
	if strings.TrimSpace(m.workspace.Text(t)) == "" {
		return Result{}, errors.EmptyContextError()
	}

	return m.run(ctx, t, OpSuggest, func(ctx context.Context, current string) (string, error) {
		resp, err := m.generator.Suggest(ctx, SuggestRequest{Context: current, Objective: Objective(t)})
		return resp.Suggestion, err
	})
}

func (m *Mediator) run(ctx context.Context, t models.ScriptType, op string, call func(context.Context, string) (string, error)) (Result, error) {
	ctx, finish, err := m.begin(ctx, t, op)
	if err != nil {
		return Result{}, err
	}
	defer finish()

	before, version, err := m.workspace.Snapshot(t)
	if err != nil {
		return Result{}, err
	}

	logger := m.logger.With(zap.String("operation", op), zap.String("script", string(t)))
	logger.Debug("generation started", zap.Uint64("version", version))
	start := time.Now()

	text, err := call(ctx, before)
	if err != nil {
		err = normalizeError(ctx, op, err)
		logger.Warn("generation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return Result{}, err
	}
	if ctx.Err() != nil {
		return Result{}, normalizeError(ctx, op, ctx.Err())
	}
	if strings.TrimSpace(text) == "" {
		err := errors.ExternalServiceError(op, stderrors.New("empty response"))
		logger.Warn("generation returned nothing", zap.Duration("elapsed", time.Since(start)))
		return Result{}, err
	}

	result := Result{
		ScriptType: t,
		Operation:  op,
		Text:       text,
		Diff:       diff.Summarize(before, text),
	}

	applied, err := m.workspace.ReplaceIfVersion(ctx, t, version, text, sourceFor(op))
	if err != nil {
		if ctx.Err() != nil {
			err = normalizeError(ctx, op, err)
		}
		return Result{}, err
	}
	if !applied {
		logger.Info("discarded stale result", zap.Uint64("version", version))
		return result, errors.StaleResultError(op)
	}

	result.Applied = true
	logger.Info("generation applied",
		zap.String("diff", result.Diff.String()),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func sourceFor(op string) script.Source {
	if op == OpSuggest {
		return script.SourceSuggest
	}
	return script.SourceGenerate
}

// normalizeError maps backend and context failures onto typed errors
func normalizeError(ctx context.Context, op string, err error) error {
	switch {
	case stderrors.Is(ctx.Err(), context.Canceled):
		return errors.Wrap(err, errors.ErrCodeCanceled, fmt.Sprintf("The %s request was canceled", op))
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.Wrap(err, errors.ErrCodeServiceTimeout, fmt.Sprintf("Generation service timed out: %s", op))
	case errors.IsAppError(err):
		return err
	default:
		return errors.ExternalServiceError(op, err)
	}
}
