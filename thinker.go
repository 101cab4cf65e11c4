package ponder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
	"github.com/zoobzio/zyn"
)

// exchange carries one thinking call through the per-thought pipeline.
type exchange struct {
	req Request

	system string
	user   string

	thought    string
	failed     bool
	suggestion *SuggestedToolUse

	result *ThoughtResult
}

// Thinker drives one model backend through the full per-thought cycle:
// similarity guard, pacing gate, prompt assembly, backend invocation, tool
// detection, history commit, response shaping. It exclusively owns one
// session's state for the life of the process; nothing is persisted.
//
// # Concurrency
//
// A Thinker expects calls serialized by its caller; as a guard it holds an
// internal mutex across the whole cycle, so concurrent calls are safe but
// execute one at a time in arrival order. Two Thinkers never share state.
//
// # Termination
//
// There is no server-enforced terminal state. The caller decides completion
// via NextThoughtNeeded; the Thinker processes calls indefinitely as long as
// distinct CurrentThinking values are supplied.
type Thinker struct {
	name        string
	provider    Provider
	defaultMode ReasoningMode
	window      int
	genTimeout  time.Duration
	traceID     string

	mu   sync.Mutex
	hist history
	gate *PacingGate

	pipeline pipz.Chainable[*exchange]
	once     sync.Once
}

// NewThinker creates a Thinker for one named backend with empty session
// state. The provider may be nil, in which case resolution falls back to
// the context or global provider at call time.
func NewThinker(name string, provider Provider) *Thinker {
	t := &Thinker{
		name:        name,
		provider:    provider,
		defaultMode: DefaultReasoningMode,
		window:      DefaultRecentThoughtWindow,
		traceID:     uuid.New().String(),
		gate:        NewPacingGate(DefaultMinThoughtInterval),
	}

	capitan.Emit(context.Background(), SessionCreated,
		FieldBackend.Field(name),
		FieldTraceID.Field(t.traceID),
	)

	return t
}

// WithDefaultMode sets the reasoning mode applied when a request omits one.
func (t *Thinker) WithDefaultMode(mode ReasoningMode) *Thinker {
	if mode.Valid() {
		t.defaultMode = mode
	}
	return t
}

// WithRecentWindow sets how many prior thoughts are folded into each prompt.
func (t *Thinker) WithRecentWindow(n int) *Thinker {
	t.window = n
	return t
}

// WithMinInterval overrides the pacing gate's minimum interval.
func (t *Thinker) WithMinInterval(d time.Duration) *Thinker {
	t.gate = NewPacingGate(d)
	return t
}

// WithGenerateTimeout bounds each backend call. Zero means no bound; a hung
// backend then blocks its session (and its branch of any fan-out) until the
// backend client itself gives up.
func (t *Thinker) WithGenerateTimeout(d time.Duration) *Thinker {
	t.genTimeout = d
	return t
}

// Name returns the backend name this Thinker was created with.
func (t *Thinker) Name() string {
	return t.name
}

// History returns a copy of the session's committed records in append order.
func (t *Thinker) History() []ThoughtRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hist.snapshot()
}

// Len returns the number of committed records.
func (t *Thinker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.hist.records)
}

// OriginalQuery returns the session's original query, or empty before the
// first commit.
func (t *Thinker) OriginalQuery() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hist.originalQuery
}

// BranchNumbers returns the thought numbers committed under a branch ID, in
// call order.
func (t *Thinker) BranchNumbers(id string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hist.branchNumbers(id)
}

// Branches returns a snapshot of the full branch index.
func (t *Thinker) Branches() map[string][]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string][]int, len(t.hist.branches))
	for id := range t.hist.branches {
		out[id] = t.hist.branchNumbers(id)
	}
	return out
}

// Process runs one thinking step and shapes the caller-facing response.
// Validation and similarity failures yield error responses; backend faults
// do not — they are committed as error-marked thoughts and returned like
// any other step.
func (t *Thinker) Process(ctx context.Context, req Request) Response {
	res, err := t.Think(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateThinking) {
			return failedStatusResponse(err.Error())
		}
		return errorResponse(err.Error())
	}
	return shapeResponse(res)
}

// Think runs one thinking step and returns the structured result. A backend
// generation failure is not an error here: the fault is captured as the
// thought text, tagged via GenerationFailed, and committed so the session
// continues.
func (t *Thinker) Think(ctx context.Context, req Request) (*ThoughtResult, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if req.ReasoningMode == "" {
		req.ReasoningMode = t.defaultMode
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Similarity guard: identical consecutive thinking fails fast with no
	// backend call and no history mutation.
	if last, ok := t.hist.last(); ok && last.CurrentThinking == req.CurrentThinking {
		capitan.Emit(ctx, ThoughtRejected,
			FieldBackend.Field(t.name),
			FieldTraceID.Field(t.traceID),
			FieldThoughtNumber.Field(req.ThoughtNumber),
		)
		return nil, ErrDuplicateThinking
	}

	if err := t.gate.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pacing interrupted: %w", err)
	}

	t.once.Do(func() {
		t.pipeline = t.buildPipeline()
	})

	ex, err := t.pipeline.Process(ctx, &exchange{req: req})
	if err != nil {
		return nil, err
	}
	return ex.result, nil
}

// buildPipeline assembles the per-thought stage sequence. Built lazily on
// first use, then reused for the session's lifetime.
func (t *Thinker) buildPipeline() pipz.Chainable[*exchange] {
	return pipz.NewSequence(pipz.NewIdentity(t.name, ""),
		pipz.Apply(pipz.NewIdentity("assemble", ""), t.assembleStage),
		pipz.Apply(pipz.NewIdentity("generate", ""), t.generateStage),
		pipz.Apply(pipz.NewIdentity("detect", ""), t.detectStage),
		pipz.Apply(pipz.NewIdentity("commit", ""), t.commitStage),
	)
}

func (t *Thinker) assembleStage(_ context.Context, ex *exchange) (*exchange, error) {
	ex.system, ex.user = assemblePrompt(promptInput{
		Request:       ex.req,
		OriginalQuery: t.hist.originalQuery,
		Prior:         t.hist.recentBefore(ex.req.ThoughtNumber, t.window),
		RevisionKnown: ex.req.RevisesThought > 0 && t.hist.knows(ex.req.RevisesThought),
		BranchKnown:   ex.req.BranchFromThought > 0 && t.hist.knows(ex.req.BranchFromThought),
	})
	return ex, nil
}

// generateStage invokes the backend exactly once. Faults are captured into
// the exchange rather than propagated: the session must never blow up on a
// backend failure.
func (t *Thinker) generateStage(ctx context.Context, ex *exchange) (*exchange, error) {
	provider, err := ResolveProvider(ctx, t.provider)
	if err != nil {
		return ex, fmt.Errorf("thinker %q: %w", t.name, err)
	}

	temp := temperatureFor(ex.req.ReasoningMode)

	capitan.Emit(ctx, GenerationStarted,
		FieldBackend.Field(t.name),
		FieldTraceID.Field(t.traceID),
		FieldThoughtNumber.Field(ex.req.ThoughtNumber),
		FieldTotalThoughts.Field(ex.req.TotalThoughts),
		FieldReasoningMode.Field(string(ex.req.ReasoningMode)),
		FieldTemperature.Field(temp),
	)

	callCtx := ctx
	if t.genTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.genTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := provider.Call(callCtx, []zyn.Message{
		{Role: "system", Content: ex.system},
		{Role: "user", Content: ex.user},
	}, temp)
	duration := time.Since(start)

	if err != nil {
		ex.thought = fmt.Sprintf("Error generating thought: %v", err)
		ex.failed = true

		capitan.Error(ctx, GenerationFailed,
			FieldBackend.Field(t.name),
			FieldTraceID.Field(t.traceID),
			FieldThoughtNumber.Field(ex.req.ThoughtNumber),
			FieldCallDuration.Field(duration),
			FieldError.Field(err),
		)
		return ex, nil
	}

	ex.thought = resp.Content

	capitan.Emit(ctx, GenerationCompleted,
		FieldBackend.Field(t.name),
		FieldTraceID.Field(t.traceID),
		FieldThoughtNumber.Field(ex.req.ThoughtNumber),
		FieldThoughtSize.Field(len(ex.thought)),
		FieldCallDuration.Field(duration),
	)
	return ex, nil
}

func (t *Thinker) detectStage(ctx context.Context, ex *exchange) (*exchange, error) {
	if ex.failed {
		return ex, nil
	}

	if use, ok := DetectToolRequest(ex.thought); ok {
		ex.suggestion = &use

		capitan.Emit(ctx, ToolSuggested,
			FieldBackend.Field(t.name),
			FieldTraceID.Field(t.traceID),
			FieldToolType.Field(use.ToolType),
			FieldToolQuery.Field(use.Query),
		)
	}
	return ex, nil
}

func (t *Thinker) commitStage(ctx context.Context, ex *exchange) (*exchange, error) {
	req := ex.req

	t.hist.append(ThoughtRecord{
		CurrentThinking:   req.CurrentThinking,
		ThoughtNumber:     req.ThoughtNumber,
		TotalThoughts:     req.TotalThoughts,
		Thought:           ex.thought,
		GenerationFailed:  ex.failed,
		NextThoughtNeeded: req.NextThoughtNeeded,
		IsRevision:        req.IsRevision,
		RevisesThought:    req.RevisesThought,
		BranchFromThought: req.BranchFromThought,
		BranchID:          req.BranchID,
		ReasoningMode:     req.ReasoningMode,
		UserContext:       req.UserContext,
		CodeContext:       req.CodeContext,
		Suggestion:        ex.suggestion,
		Timestamp:         time.Now(),
	})
	t.gate.Mark()

	capitan.Emit(ctx, ThoughtCommitted,
		FieldBackend.Field(t.name),
		FieldTraceID.Field(t.traceID),
		FieldThoughtNumber.Field(req.ThoughtNumber),
		FieldHistoryLength.Field(len(t.hist.records)),
		FieldBranchID.Field(req.BranchID),
	)

	ex.result = &ThoughtResult{
		Thought:           ex.thought,
		ThoughtNumber:     req.ThoughtNumber,
		TotalThoughts:     req.TotalThoughts,
		NextThoughtNeeded: req.NextThoughtNeeded,
		Suggestion:        ex.suggestion,
		GenerationFailed:  ex.failed,
	}
	return ex, nil
}
