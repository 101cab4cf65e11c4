package ponder

import "github.com/zoobzio/capitan"

// Signal definitions for thinking engine events.
// Signals follow the pattern: ponder.<entity>.<event>.
var (
	// Session lifecycle signals.
	SessionCreated = capitan.NewSignal(
		"ponder.session.created",
		"New thinking session initiated with backend and trace ID",
	)

	// Per-thought cycle signals.
	ThoughtRejected = capitan.NewSignal(
		"ponder.thought.rejected",
		"Request rejected by the similarity guard before any backend call",
	)
	PacingWaited = capitan.NewSignal(
		"ponder.pacing.waited",
		"Pacing gate delayed a thought to honor the minimum interval",
	)
	GenerationStarted = capitan.NewSignal(
		"ponder.generation.started",
		"Backend invocation began for one thought",
	)
	GenerationCompleted = capitan.NewSignal(
		"ponder.generation.completed",
		"Backend returned generated thought text",
	)
	GenerationFailed = capitan.NewSignal(
		"ponder.generation.failed",
		"Backend invocation failed; fault captured as an error-marked thought",
	)
	ToolSuggested = capitan.NewSignal(
		"ponder.tool.suggested",
		"Tool-request detector matched a pattern in generated text",
	)
	ThoughtCommitted = capitan.NewSignal(
		"ponder.thought.committed",
		"Thought record appended to session history",
	)

	// Combiner fan-out signals.
	CombineStarted = capitan.NewSignal(
		"ponder.combine.started",
		"Fan-out across all registered backends began",
	)
	CombineBackendDone = capitan.NewSignal(
		"ponder.combine.backend_done",
		"One backend's branch of the fan-out settled",
	)
	CombineCompleted = capitan.NewSignal(
		"ponder.combine.completed",
		"Fan-out joined and combined response assembled",
	)
	CombineFailed = capitan.NewSignal(
		"ponder.combine.failed",
		"Every fanned-out backend failed",
	)
)

// Field keys for thinking engine event data.
var (
	// Session metadata.
	FieldBackend = capitan.NewStringKey("backend")
	FieldTraceID = capitan.NewStringKey("trace_id")

	// Sequencing metadata.
	FieldThoughtNumber = capitan.NewIntKey("thought_number")
	FieldTotalThoughts = capitan.NewIntKey("total_thoughts")
	FieldHistoryLength = capitan.NewIntKey("history_length")
	FieldBranchID      = capitan.NewStringKey("branch_id")

	// Generation metadata.
	FieldReasoningMode = capitan.NewStringKey("reasoning_mode")
	FieldTemperature   = capitan.NewFloat32Key("temperature")
	FieldThoughtSize   = capitan.NewIntKey("thought_size") // character count

	// Tool detection.
	FieldToolType  = capitan.NewStringKey("tool_type")
	FieldToolQuery = capitan.NewStringKey("tool_query")

	// Fan-out metrics.
	FieldBackendCount = capitan.NewIntKey("backend_count")
	FieldFailedCount  = capitan.NewIntKey("failed_count")

	// Timing.
	FieldWaitDuration = capitan.NewDurationKey("wait_duration")
	FieldCallDuration = capitan.NewDurationKey("call_duration")

	// Error information.
	FieldError = capitan.NewErrorKey("error")
)
