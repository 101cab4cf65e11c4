package ponder

import (
	"encoding/json"
	"fmt"
)

// Request is one caller-supplied step of a thinking session.
type Request struct {
	// CurrentThinking is the evolving input for this step. It must differ
	// from the immediately preceding step's value.
	CurrentThinking string `json:"currentThinking"`

	ThoughtNumber int `json:"thoughtNumber"`
	TotalThoughts int `json:"totalThoughts"`

	// NextThoughtNeeded is the caller's declaration that the sequence
	// should continue. The engine echoes it without acting on it.
	NextThoughtNeeded bool `json:"nextThoughtNeeded"`

	IsRevision     bool `json:"isRevision,omitempty"`
	RevisesThought int  `json:"revisesThought,omitempty"`

	BranchFromThought int    `json:"branchFromThought,omitempty"`
	BranchID          string `json:"branchId,omitempty"`

	// NeedsMoreThoughts is advisory only. It is accepted and echoed for
	// forward compatibility but never read by the engine.
	NeedsMoreThoughts bool `json:"needsMoreThoughts,omitempty"`

	ReasoningMode ReasoningMode `json:"reasoningMode,omitempty"`

	// UserContext and CodeContext are mutually exclusive forms of the same
	// slot; when both are present the plain string wins.
	UserContext string       `json:"userContext,omitempty"`
	CodeContext *CodeContext `json:"codeContext,omitempty"`

	ToolResult *ExternalToolResult `json:"externalToolResult,omitempty"`
}

// validate checks the structural requirements before the engine runs.
func (r Request) validate() error {
	if r.CurrentThinking == "" {
		return fmt.Errorf("currentThinking is required")
	}
	if r.ThoughtNumber < 1 {
		return fmt.Errorf("thoughtNumber must be a positive integer, got %d", r.ThoughtNumber)
	}
	if r.TotalThoughts < 1 {
		return fmt.Errorf("totalThoughts must be a positive integer, got %d", r.TotalThoughts)
	}
	if r.ReasoningMode != "" && !r.ReasoningMode.Valid() {
		return fmt.Errorf("reasoningMode %q is not one of analytical, creative, critical, reflective", r.ReasoningMode)
	}
	if tr := r.ToolResult; tr != nil {
		if tr.ToolType == "" || tr.Query == "" || tr.Result == "" {
			return fmt.Errorf("externalToolResult requires toolType, query, and result together")
		}
	}
	return nil
}

// ContentBlock is one text item of a caller-facing response.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the caller-facing result of a thinking call: an ordered list
// of content blocks plus an error flag.
type Response struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ThoughtResult is the structured outcome of one successful thinking step,
// before response shaping.
type ThoughtResult struct {
	Thought           string
	ThoughtNumber     int
	TotalThoughts     int
	NextThoughtNeeded bool
	Suggestion        *SuggestedToolUse

	// GenerationFailed marks results whose Thought text is a captured
	// backend fault rather than model output. The record is committed
	// either way; the session never aborts on a backend failure.
	GenerationFailed bool
}

// Hint returns the caller guidance string for this result.
func (r *ThoughtResult) Hint() string {
	if r.Suggestion != nil {
		return fmt.Sprintf("Consider invoking the %s tool for %q and passing its result back via externalToolResult before the next thought.",
			r.Suggestion.ToolType, r.Suggestion.Query)
	}
	return "Feed this thought back as the next currentThinking to continue the sequence."
}

// thoughtPayload is the JSON shape of a single-backend success block.
type thoughtPayload struct {
	Thought           string          `json:"thought"`
	ThoughtNumber     int             `json:"thoughtNumber"`
	TotalThoughts     int             `json:"totalThoughts"`
	NextThoughtNeeded bool            `json:"nextThoughtNeeded"`
	SuggestedToolUse  *toolUsePayload `json:"suggestedToolUse,omitempty"`
	Hint              string          `json:"hint"`
}

type toolUsePayload struct {
	ToolType string `json:"toolType"`
	Query    string `json:"query"`
	Message  string `json:"message"`
}

// shapeResponse encodes a ThoughtResult as the single JSON content block of
// a successful response.
func shapeResponse(res *ThoughtResult) Response {
	payload := thoughtPayload{
		Thought:           res.Thought,
		ThoughtNumber:     res.ThoughtNumber,
		TotalThoughts:     res.TotalThoughts,
		NextThoughtNeeded: res.NextThoughtNeeded,
		Hint:              res.Hint(),
	}
	if s := res.Suggestion; s != nil {
		payload.SuggestedToolUse = &toolUsePayload{
			ToolType: s.ToolType,
			Query:    s.Query,
			Message:  fmt.Sprintf("The reasoning suggests using the %s tool to look up %q.", s.ToolType, s.Query),
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// Payload is plain data; marshal cannot realistically fail.
		return errorResponse(fmt.Sprintf("failed to encode response: %v", err))
	}

	return Response{Content: []ContentBlock{{Type: "text", Text: string(data)}}}
}

// failedStatusResponse encodes a structured failed-status error, used by the
// similarity guard.
func failedStatusResponse(reason string) Response {
	data, _ := json.Marshal(map[string]string{
		"error":  reason,
		"status": "failed",
	})
	return Response{
		Content: []ContentBlock{{Type: "text", Text: string(data)}},
		IsError: true,
	}
}

// errorResponse encodes a plain error-prefixed text response.
func errorResponse(text string) Response {
	return Response{
		Content: []ContentBlock{{Type: "text", Text: "Error: " + text}},
		IsError: true,
	}
}
