// Package ponder orchestrates multi-step reasoning sessions against one or
// more LLM backends, presenting each step as a discrete, revisable thought.
//
// # Core Types
//
// The package is built around three concepts:
//
//   - [ThoughtRecord] - One committed reasoning step and its relationships
//     (revisions, branches) to prior steps
//   - [Thinker] - A single-backend session driving the full per-thought
//     cycle: similarity guard, pacing, prompt assembly, generation, tool
//     detection, commit
//   - [Combiner] - Fan-out of one logical request across every registered
//     backend, with an all-complete join and per-backend transcripts
//
// # Sessions
//
// A [Thinker] exclusively owns one session's history for the life of the
// process; nothing is persisted. Create one per backend:
//
//	thinker := ponder.NewThinker("openai",
//	    ponder.NewOpenAIProvider("openai", baseURL, apiKey, model))
//	resp := thinker.Process(ctx, ponder.Request{
//	    CurrentThinking:   "How should we shard the index?",
//	    ThoughtNumber:     1,
//	    TotalThoughts:     5,
//	    NextThoughtNeeded: true,
//	})
//
// History is append-only. A revision supersedes an earlier thought by
// number without deleting it; a branch opens an alternate line of reasoning
// grouped under a branch ID. The caller decides completion via
// NextThoughtNeeded; the engine enforces no terminal state.
//
// # Pacing
//
// Consecutive thoughts in one session are separated by at least
// [DefaultMinThoughtInterval] (see [PacingGate]). The first thought never
// waits.
//
// # Tool Suggestions
//
// Generated text is scanned by [DetectToolRequest], an ordered list of
// best-effort pattern rules. A match is surfaced to the caller as a
// suggestion; nothing is ever auto-executed. The caller may run the lookup
// and pass the outcome back via Request.ToolResult.
//
// # Backends
//
// LLM access uses the zyn-compatible [Provider] interface with a resolution
// hierarchy: Thinker-level, then context ([WithProvider]), then global
// ([SetProvider]). [OpenAIProvider] covers any OpenAI-compatible endpoint.
// A backend failure never aborts a session: the fault is committed as an
// error-marked thought (ThoughtRecord.GenerationFailed) and the sequence
// continues.
//
// # Combining Backends
//
// A [Combiner] routes by model type: a backend name delegates directly,
// "all" fans out concurrently. Partial failure is not an error — failed
// backends stay visible in the combined transcript, marked by a fixed
// placeholder. Only when every backend fails does the combined call report
// an error.
//
// # Observability
//
// ponder emits capitan signals throughout execution. See signals.go for the
// complete list, including ThoughtCommitted, ThoughtRejected,
// GenerationFailed, ToolSuggested, and the combine fan-out events.
package ponder
