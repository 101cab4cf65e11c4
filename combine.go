package ponder

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zoobzio/capitan"
)

// ModelTypeAll selects every registered backend for fan-out.
const ModelTypeAll = "all"

// failedThoughtPlaceholder is the fixed text a failed backend contributes to
// a combined response.
const failedThoughtPlaceholder = "Backend %q failed to produce a thought."

// Combiner wraps registered Thinkers (one per configured backend) behind a
// single call. A specific modelType delegates directly; "all" fans the
// request out to every backend concurrently and joins when all settle — one
// backend's failure never cancels or blocks the others. Each backend keeps
// its own session; the Combiner never lets two backends share history.
type Combiner struct {
	mu       sync.RWMutex
	thinkers map[string]*Thinker
	order    []string
}

// NewCombiner creates a Combiner over the given Thinkers.
func NewCombiner(thinkers ...*Thinker) *Combiner {
	c := &Combiner{thinkers: make(map[string]*Thinker)}
	for _, t := range thinkers {
		c.Register(t)
	}
	return c
}

// Register adds a backend under its Thinker's name. Re-registering a name
// replaces the previous Thinker without changing its position.
func (c *Combiner) Register(t *Thinker) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.thinkers[t.Name()]; !exists {
		c.order = append(c.order, t.Name())
	}
	c.thinkers[t.Name()] = t
}

// Backends returns the registered backend names in registration order.
func (c *Combiner) Backends() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// backendOutcome captures how one backend's branch of the fan-out settled.
type backendOutcome struct {
	name string
	res  *ThoughtResult
	err  error
}

// failed reports whether this branch counts as a failure: either the call
// itself errored or the backend committed a fault-tagged thought.
func (o backendOutcome) failed() bool {
	return o.err != nil || o.res == nil || o.res.GenerationFailed
}

// errorText returns the failure description for aggregate error reporting.
func (o backendOutcome) errorText() string {
	if o.err != nil {
		return o.err.Error()
	}
	if o.res != nil {
		return o.res.Thought
	}
	return "no result"
}

// Process routes one logical thought request. modelType is a registered
// backend name, or "all" (empty defaults to "all") for concurrent fan-out.
func (c *Combiner) Process(ctx context.Context, modelType string, req Request) Response {
	c.mu.RLock()
	order := make([]string, len(c.order))
	copy(order, c.order)
	thinkers := make(map[string]*Thinker, len(c.thinkers))
	for name, t := range c.thinkers {
		thinkers[name] = t
	}
	c.mu.RUnlock()

	if len(order) == 0 {
		return errorResponse(ErrNoBackends.Error())
	}

	if modelType != "" && modelType != ModelTypeAll {
		t, ok := thinkers[modelType]
		if !ok {
			return errorResponse(fmt.Sprintf("%v: %q (registered: %s)",
				ErrUnknownBackend, modelType, strings.Join(order, ", ")))
		}
		return t.Process(ctx, req)
	}

	capitan.Emit(ctx, CombineStarted,
		FieldBackendCount.Field(len(order)),
	)

	// Fan out with an all-complete join: every branch settles before the
	// combined response is assembled.
	results := make(chan backendOutcome, len(order))
	var wg sync.WaitGroup
	wg.Add(len(order))

	for _, name := range order {
		go func(name string, t *Thinker) {
			defer wg.Done()

			res, err := t.Think(ctx, req)

			capitan.Emit(ctx, CombineBackendDone,
				FieldBackend.Field(name),
				FieldError.Field(err),
			)

			results <- backendOutcome{name: name, res: res, err: err}
		}(name, thinkers[name])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make(map[string]backendOutcome, len(order))
	failedCount := 0
	for o := range results {
		outcomes[o.name] = o
		if o.failed() {
			failedCount++
		}
	}

	if failedCount == len(order) {
		var b strings.Builder
		b.WriteString("all backends failed:")
		for _, name := range order {
			fmt.Fprintf(&b, "\n- %s: %s", name, outcomes[name].errorText())
		}

		capitan.Error(ctx, CombineFailed,
			FieldBackendCount.Field(len(order)),
			FieldFailedCount.Field(failedCount),
			FieldError.Field(ErrAllBackendsFailed),
		)
		return errorResponse(b.String())
	}

	// Partial failure is not an error: failing backends stay visible in
	// the combined response, marked by the placeholder. Each backend's
	// voice stays a separate block; nothing is merged into one narrative.
	blocks := make([]ContentBlock, 0, len(order))
	for _, name := range order {
		blocks = append(blocks, ContentBlock{
			Type: "text",
			Text: transcriptBlock(name, req, outcomes[name]),
		})
	}

	capitan.Emit(ctx, CombineCompleted,
		FieldBackendCount.Field(len(order)),
		FieldFailedCount.Field(failedCount),
	)

	return Response{Content: blocks}
}

// transcriptBlock renders one backend's labeled transcript: its thought (or
// the failure placeholder) plus a metadata footer.
func transcriptBlock(name string, req Request, o backendOutcome) string {
	thought := ""
	number, total := req.ThoughtNumber, req.TotalThoughts
	nextNeeded := req.NextThoughtNeeded
	tool := "None"

	if o.failed() {
		thought = fmt.Sprintf(failedThoughtPlaceholder, name)
	} else {
		thought = o.res.Thought
		number, total = o.res.ThoughtNumber, o.res.TotalThoughts
		nextNeeded = o.res.NextThoughtNeeded
		if s := o.res.Suggestion; s != nil {
			tool = fmt.Sprintf("%s (%q)", s.ToolType, s.Query)
		}
	}

	return fmt.Sprintf("=== Backend: %s ===\n%s\n\n[Thought %d of %d | next thought needed: %t | suggested tool: %s]",
		name, thought, number, total, nextNeeded, tool)
}
