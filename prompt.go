package ponder

import (
	"fmt"
	"strings"
)

// System prompts selected by reasoning mode.
var systemPrompts = map[ReasoningMode]string{
	ModeAnalytical: "You are a sequential reasoning engine operating in analytical mode. " +
		"Produce one thought per call: decompose the problem, weigh the evidence, and state " +
		"logical implications. Build on prior thoughts rather than restating them.",
	ModeCreative: "You are a sequential reasoning engine operating in creative mode. " +
		"Produce one thought per call: explore unconventional angles, draw unexpected " +
		"connections, and generate novel possibilities. Build on prior thoughts rather than " +
		"restating them.",
	ModeCritical: "You are a sequential reasoning engine operating in critical mode. " +
		"Produce one thought per call: challenge assumptions, probe weaknesses, and " +
		"stress-test the current line of reasoning. Build on prior thoughts rather than " +
		"restating them.",
	ModeReflective: "You are a sequential reasoning engine operating in reflective mode. " +
		"Produce one thought per call: step back, evaluate the reasoning so far, and surface " +
		"what has been learned and what remains uncertain. Build on prior thoughts rather " +
		"than restating them.",
}

// Directive sentences appended to every user prompt.
var modeDirectives = map[ReasoningMode]string{
	ModeAnalytical: "Apply analytical reasoning to produce the next thought.",
	ModeCreative:   "Apply creative reasoning to produce the next thought.",
	ModeCritical:   "Apply critical reasoning to produce the next thought.",
	ModeReflective: "Apply reflective reasoning to produce the next thought.",
}

// promptInput is everything the assembler reads. It is a pure function of
// these fields: identical input yields byte-identical prompts.
type promptInput struct {
	Request       Request
	OriginalQuery string          // empty on the first step; CurrentThinking is used instead
	Prior         []ThoughtRecord // most-recent-first, already capped to the window
	RevisionKnown bool            // RevisesThought refers to a committed thought number
	BranchKnown   bool            // BranchFromThought refers to a committed thought number
}

// assemblePrompt builds the system and user prompts for one generation call.
func assemblePrompt(in promptInput) (system, user string) {
	req := in.Request
	mode := req.ReasoningMode
	if !mode.Valid() {
		mode = DefaultReasoningMode
	}

	original := in.OriginalQuery
	if original == "" {
		original = req.CurrentThinking
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Original query: %s\n", original)

	// Prior thoughts render oldest-first.
	for i := len(in.Prior) - 1; i >= 0; i-- {
		rec := in.Prior[i]
		fmt.Fprintf(&b, "\nPrevious Thought #%d: %s\n", rec.ThoughtNumber, rec.Thought)
	}

	fmt.Fprintf(&b, "\nCurrent thinking (step %d of %d):\n%s\n", req.ThoughtNumber, req.TotalThoughts, req.CurrentThinking)

	switch {
	case req.UserContext != "":
		fmt.Fprintf(&b, "\nAdditional context:\n%s\n", req.UserContext)
	case req.CodeContext != nil:
		fmt.Fprintf(&b, "\nAdditional context:\n%s", RenderCodeContext(req.CodeContext))
	}

	if req.IsRevision {
		if in.RevisionKnown {
			fmt.Fprintf(&b, "\nThis revises Thought #%d.\n", req.RevisesThought)
		} else {
			b.WriteString("\nThis revises an earlier thought.\n")
		}
	} else if req.BranchFromThought > 0 {
		if in.BranchKnown {
			fmt.Fprintf(&b, "\nThis branches from Thought #%d.\n", req.BranchFromThought)
		} else {
			b.WriteString("\nThis branches from an earlier thought.\n")
		}
	}

	if req.ThoughtNumber >= req.TotalThoughts {
		fmt.Fprintf(&b, "\nThis is the final thought (%d of %d). Provide a conclusion that resolves the original query.\n",
			req.ThoughtNumber, req.TotalThoughts)
	}

	if tr := req.ToolResult; tr != nil {
		fmt.Fprintf(&b, "\nExternal tool result (%s) for query %q:\n%s\nIncorporate this result into the next thought.\n",
			tr.ToolType, tr.Query, tr.Result)
	}

	fmt.Fprintf(&b, "\n%s", modeDirectives[mode])

	return systemPrompts[mode], b.String()
}

// RenderCodeContext produces the deterministic textual rendering of a
// structured code context. Subsections whose source fields are absent are
// omitted entirely; no placeholder text is emitted for missing data.
func RenderCodeContext(cc *CodeContext) string {
	var b strings.Builder

	if cc.Query != "" {
		fmt.Fprintf(&b, "Code context for: %s\n", cc.Query)
	}

	for _, f := range cc.Files {
		if f.Language != "" {
			fmt.Fprintf(&b, "File: %s (%s)\n", f.Path, f.Language)
		} else {
			fmt.Fprintf(&b, "File: %s\n", f.Path)
		}
		if f.StartLine > 0 {
			fmt.Fprintf(&b, "Lines %d-%d\n", f.StartLine, f.EndLine)
		}
		if f.Snippet != "" {
			fmt.Fprintf(&b, "```%s\n%s\n```\n", f.Language, f.Snippet)
		}
		if len(f.Symbols) > 0 {
			b.WriteString("Symbols:\n")
			for _, s := range f.Symbols {
				if s.Line > 0 {
					fmt.Fprintf(&b, "  - %s (%s), line %d\n", s.Name, s.Type, s.Line)
				} else {
					fmt.Fprintf(&b, "  - %s (%s)\n", s.Name, s.Type)
				}
			}
		}
	}

	if cc.Error != nil {
		fmt.Fprintf(&b, "Error: %s\n", cc.Error.Message)
		if cc.Error.Stack != "" {
			fmt.Fprintf(&b, "Stack trace:\n%s\n", cc.Error.Stack)
		}
	}

	if cc.Project != nil {
		if cc.Project.Structure != "" {
			fmt.Fprintf(&b, "Project structure:\n%s\n", cc.Project.Structure)
		}
		if len(cc.Project.Dependencies) > 0 {
			fmt.Fprintf(&b, "Dependencies: %s\n", strings.Join(cc.Project.Dependencies, ", "))
		}
	}

	return b.String()
}
