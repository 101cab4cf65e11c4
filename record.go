package ponder

import "time"

// ReasoningMode selects the stylistic directive folded into prompt assembly.
type ReasoningMode string

const (
	ModeAnalytical ReasoningMode = "analytical"
	ModeCreative   ReasoningMode = "creative"
	ModeCritical   ReasoningMode = "critical"
	ModeReflective ReasoningMode = "reflective"
)

// Valid reports whether the mode is one of the four supported values.
func (m ReasoningMode) Valid() bool {
	switch m {
	case ModeAnalytical, ModeCreative, ModeCritical, ModeReflective:
		return true
	}
	return false
}

// Tool types produced by the tool-request detector.
const (
	ToolCodeRetrieval    = "code_retrieval"
	ToolDocumentation    = "documentation"
	ToolFileContent      = "file_content"
	ToolSymbolDefinition = "symbol_definition"
	ToolFileSearch       = "file_search"
)

// SuggestedToolUse is a heuristically detected hint that an external lookup
// should happen before the next thought. It is only ever a suggestion
// surfaced to the caller, never auto-executed.
type SuggestedToolUse struct {
	ToolType string `json:"toolType"`
	Query    string `json:"query"`
}

// ExternalToolResult carries the outcome of a tool lookup the caller ran
// between thoughts. All three fields are required together.
type ExternalToolResult struct {
	ToolType string `json:"toolType"`
	Query    string `json:"query"`
	Result   string `json:"result"`
}

// CodeSymbol identifies a named program element within a file.
type CodeSymbol struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Line int    `json:"line,omitempty"`
}

// CodeFile describes one file included in a CodeContext.
type CodeFile struct {
	Path      string       `json:"path"`
	Language  string       `json:"language,omitempty"`
	Snippet   string       `json:"snippet,omitempty"`
	StartLine int          `json:"startLine,omitempty"`
	EndLine   int          `json:"endLine,omitempty"`
	Symbols   []CodeSymbol `json:"symbols,omitempty"`
}

// CodeError captures error information attached to a CodeContext.
type CodeError struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ProjectInfo describes the enclosing project of a CodeContext.
type ProjectInfo struct {
	Structure    string   `json:"structure,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// CodeContext is structured external context supplied by the caller. The
// engine's only obligation is a deterministic textual rendering of whatever
// fields are present; absent fields are omitted, never rendered as
// placeholders.
type CodeContext struct {
	Query   string       `json:"query,omitempty"`
	Files   []CodeFile   `json:"files,omitempty"`
	Error   *CodeError   `json:"error,omitempty"`
	Project *ProjectInfo `json:"project,omitempty"`
}

// ThoughtRecord is one committed step of reasoning. Records are append-only:
// once committed to a session they are never mutated or removed. Revisions
// and branches reference earlier records by thought number without touching
// them.
type ThoughtRecord struct {
	OriginalQuery   string
	CurrentThinking string
	ThoughtNumber   int
	TotalThoughts   int

	// Thought is the model-generated output for this step. When
	// GenerationFailed is set, Thought holds the captured fault text
	// instead of model output.
	Thought          string
	GenerationFailed bool

	NextThoughtNeeded bool

	IsRevision        bool
	RevisesThought    int
	BranchFromThought int
	BranchID          string

	ReasoningMode ReasoningMode
	UserContext   string
	CodeContext   *CodeContext

	Suggestion *SuggestedToolUse
	Timestamp  time.Time
}

// history is the append-only store for one session. It owns the record
// sequence, the originalQuery (set once), and the derived branch index.
// history is not safe for concurrent use; the owning Thinker serializes
// access.
type history struct {
	records       []ThoughtRecord
	branches      map[string][]int
	originalQuery string
}

// append commits a record and maintains the derived indexes. The session's
// originalQuery is captured from the first record's CurrentThinking and
// never overwritten afterward.
func (h *history) append(rec ThoughtRecord) {
	if h.originalQuery == "" && (rec.ThoughtNumber == 1 || len(h.records) == 0) {
		h.originalQuery = rec.CurrentThinking
	}
	rec.OriginalQuery = h.originalQuery
	h.records = append(h.records, rec)

	if rec.BranchFromThought > 0 && rec.BranchID != "" {
		if h.branches == nil {
			h.branches = make(map[string][]int)
		}
		h.branches[rec.BranchID] = append(h.branches[rec.BranchID], rec.ThoughtNumber)
	}
}

// last returns the most recently committed record.
func (h *history) last() (ThoughtRecord, bool) {
	if len(h.records) == 0 {
		return ThoughtRecord{}, false
	}
	return h.records[len(h.records)-1], true
}

// recentBefore returns up to limit records whose ThoughtNumber is strictly
// less than n, most recent first.
func (h *history) recentBefore(n, limit int) []ThoughtRecord {
	if limit <= 0 {
		return nil
	}
	var out []ThoughtRecord
	for i := len(h.records) - 1; i >= 0 && len(out) < limit; i-- {
		if h.records[i].ThoughtNumber < n {
			out = append(out, h.records[i])
		}
	}
	return out
}

// knows reports whether any committed record carries the given thought
// number. Revision and branch references to numbers the session has never
// seen are treated as unknown.
func (h *history) knows(n int) bool {
	for i := range h.records {
		if h.records[i].ThoughtNumber == n {
			return true
		}
	}
	return false
}

// branchNumbers returns the thought numbers recorded under a branch ID, in
// commit order.
func (h *history) branchNumbers(id string) []int {
	nums := h.branches[id]
	out := make([]int, len(nums))
	copy(out, nums)
	return out
}

// snapshot returns a copy of the full record sequence.
func (h *history) snapshot() []ThoughtRecord {
	out := make([]ThoughtRecord, len(h.records))
	copy(out, h.records)
	return out
}
