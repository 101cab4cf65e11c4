package ponder

import (
	"strings"
	"testing"
)

func TestAssemblePromptFirstStep(t *testing.T) {
	system, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking:   "How do we shard the index?",
			ThoughtNumber:     1,
			TotalThoughts:     5,
			NextThoughtNeeded: true,
			ReasoningMode:     ModeAnalytical,
		},
	})

	if system != systemPrompts[ModeAnalytical] {
		t.Error("expected the analytical system prompt")
	}
	if !strings.Contains(user, "Original query: How do we shard the index?") {
		t.Errorf("missing original query line:\n%s", user)
	}
	if strings.Contains(user, "Previous Thought") {
		t.Error("first step must not carry prior thoughts")
	}
	if strings.Contains(user, "final thought") {
		t.Error("step 1 of 5 must not carry the conclusion directive")
	}
	if !strings.HasSuffix(user, modeDirectives[ModeAnalytical]) {
		t.Errorf("prompt must end with the mode directive:\n%s", user)
	}
}

func TestAssemblePromptDeterministic(t *testing.T) {
	in := promptInput{
		Request: Request{
			CurrentThinking: "step two",
			ThoughtNumber:   2,
			TotalThoughts:   3,
			ReasoningMode:   ModeCritical,
			UserContext:     "deployment runs on spot instances",
		},
		OriginalQuery: "original question",
		Prior: []ThoughtRecord{
			{ThoughtNumber: 1, Thought: "first answer"},
		},
	}

	s1, u1 := assemblePrompt(in)
	s2, u2 := assemblePrompt(in)
	if s1 != s2 || u1 != u2 {
		t.Error("identical input must yield byte-identical prompts")
	}
}

func TestAssemblePromptPriorThoughtsOldestFirst(t *testing.T) {
	_, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking: "step four",
			ThoughtNumber:   4,
			TotalThoughts:   6,
			ReasoningMode:   ModeAnalytical,
		},
		OriginalQuery: "q",
		Prior: []ThoughtRecord{ // most-recent-first, as history delivers them
			{ThoughtNumber: 3, Thought: "third"},
			{ThoughtNumber: 2, Thought: "second"},
		},
	})

	second := strings.Index(user, "Previous Thought #2: second")
	third := strings.Index(user, "Previous Thought #3: third")
	if second < 0 || third < 0 {
		t.Fatalf("missing prior thoughts:\n%s", user)
	}
	if second > third {
		t.Error("prior thoughts must render oldest-first")
	}
}

func TestAssemblePromptRevisionAnnotation(t *testing.T) {
	_, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking: "rethink",
			ThoughtNumber:   3,
			TotalThoughts:   5,
			IsRevision:      true,
			RevisesThought:  2,
			ReasoningMode:   ModeAnalytical,
		},
		OriginalQuery: "q",
		RevisionKnown: true,
	})

	if !strings.Contains(user, "This revises Thought #2.") {
		t.Errorf("missing revision annotation:\n%s", user)
	}
}

func TestAssemblePromptUnknownRevisionReference(t *testing.T) {
	_, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking: "rethink",
			ThoughtNumber:   3,
			TotalThoughts:   5,
			IsRevision:      true,
			RevisesThought:  9,
			ReasoningMode:   ModeAnalytical,
		},
		OriginalQuery: "q",
		RevisionKnown: false,
	})

	if strings.Contains(user, "Thought #9") {
		t.Error("unknown revision reference must not be rendered by number")
	}
	if !strings.Contains(user, "This revises an earlier thought.") {
		t.Errorf("missing unknown-revision annotation:\n%s", user)
	}
}

func TestAssemblePromptBranchAnnotation(t *testing.T) {
	_, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking:   "alternative",
			ThoughtNumber:     4,
			TotalThoughts:     6,
			BranchFromThought: 2,
			BranchID:          "alt",
			ReasoningMode:     ModeAnalytical,
		},
		OriginalQuery: "q",
		BranchKnown:   true,
	})

	if !strings.Contains(user, "This branches from Thought #2.") {
		t.Errorf("missing branch annotation:\n%s", user)
	}
}

func TestAssemblePromptRevisionWinsOverBranch(t *testing.T) {
	_, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking:   "x",
			ThoughtNumber:     4,
			TotalThoughts:     6,
			IsRevision:        true,
			RevisesThought:    3,
			BranchFromThought: 2,
			ReasoningMode:     ModeAnalytical,
		},
		OriginalQuery: "q",
		RevisionKnown: true,
		BranchKnown:   true,
	})

	if !strings.Contains(user, "This revises Thought #3.") {
		t.Error("expected revision annotation")
	}
	if strings.Contains(user, "branches from") {
		t.Error("revision must suppress the branch annotation")
	}
}

func TestAssemblePromptFinalStepDirective(t *testing.T) {
	_, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking: "wrap up",
			ThoughtNumber:   5,
			TotalThoughts:   5,
			ReasoningMode:   ModeReflective,
		},
		OriginalQuery: "q",
	})

	if !strings.Contains(user, "This is the final thought (5 of 5)") {
		t.Errorf("missing conclusion directive:\n%s", user)
	}
}

func TestAssemblePromptToolResult(t *testing.T) {
	_, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking: "continue",
			ThoughtNumber:   2,
			TotalThoughts:   4,
			ReasoningMode:   ModeAnalytical,
			ToolResult: &ExternalToolResult{
				ToolType: ToolCodeRetrieval,
				Query:    "auth middleware",
				Result:   "func Authenticate(next http.Handler) http.Handler { ... }",
			},
		},
		OriginalQuery: "q",
	})

	if !strings.Contains(user, `External tool result (code_retrieval) for query "auth middleware":`) {
		t.Errorf("missing tool result header:\n%s", user)
	}
	if !strings.Contains(user, "Incorporate this result into the next thought.") {
		t.Error("missing incorporation instruction")
	}
}

func TestAssemblePromptPlainUserContext(t *testing.T) {
	_, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking: "x",
			ThoughtNumber:   1,
			TotalThoughts:   2,
			ReasoningMode:   ModeAnalytical,
			UserContext:     "the service is read-heavy",
		},
	})

	if !strings.Contains(user, "Additional context:\nthe service is read-heavy") {
		t.Errorf("missing inline user context:\n%s", user)
	}
}

func TestAssemblePromptDefaultsInvalidMode(t *testing.T) {
	system, user := assemblePrompt(promptInput{
		Request: Request{
			CurrentThinking: "x",
			ThoughtNumber:   1,
			TotalThoughts:   2,
		},
	})

	if system != systemPrompts[DefaultReasoningMode] {
		t.Error("empty mode must fall back to the default")
	}
	if !strings.HasSuffix(user, modeDirectives[DefaultReasoningMode]) {
		t.Error("directive must match the defaulted mode")
	}
}

func TestRenderCodeContextFull(t *testing.T) {
	out := RenderCodeContext(&CodeContext{
		Query: "token refresh",
		Files: []CodeFile{
			{
				Path:      "internal/auth/refresh.go",
				Language:  "go",
				Snippet:   "func Refresh(tok string) error { return nil }",
				StartLine: 10,
				EndLine:   12,
				Symbols: []CodeSymbol{
					{Name: "Refresh", Type: "func", Line: 10},
					{Name: "tokenTTL", Type: "const"},
				},
			},
		},
		Error: &CodeError{
			Message: "token expired",
			Stack:   "refresh.go:11",
		},
		Project: &ProjectInfo{
			Structure:    "cmd/, internal/",
			Dependencies: []string{"zyn", "pipz"},
		},
	})

	for _, want := range []string{
		"Code context for: token refresh",
		"File: internal/auth/refresh.go (go)",
		"Lines 10-12",
		"```go\nfunc Refresh(tok string) error { return nil }\n```",
		"  - Refresh (func), line 10",
		"  - tokenTTL (const)",
		"Error: token expired",
		"Stack trace:\nrefresh.go:11",
		"Project structure:\ncmd/, internal/",
		"Dependencies: zyn, pipz",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in rendering:\n%s", want, out)
		}
	}
}

func TestRenderCodeContextOmitsAbsentSections(t *testing.T) {
	out := RenderCodeContext(&CodeContext{
		Files: []CodeFile{{Path: "main.go"}},
	})

	if strings.Contains(out, "Code context for:") {
		t.Error("query line must be omitted when absent")
	}
	if strings.Contains(out, "Lines") || strings.Contains(out, "```") ||
		strings.Contains(out, "Symbols:") || strings.Contains(out, "Error:") ||
		strings.Contains(out, "Project structure:") || strings.Contains(out, "Dependencies:") {
		t.Errorf("absent subsections must not render placeholders:\n%s", out)
	}
	if !strings.Contains(out, "File: main.go\n") {
		t.Errorf("missing bare file header:\n%s", out)
	}
}

func TestRenderCodeContextDeterministic(t *testing.T) {
	cc := &CodeContext{
		Query: "q",
		Files: []CodeFile{{Path: "a.go", Language: "go"}, {Path: "b.go"}},
	}
	if RenderCodeContext(cc) != RenderCodeContext(cc) {
		t.Error("rendering must be deterministic")
	}
}
