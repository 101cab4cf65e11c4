package ponder

import (
	"regexp"
	"strings"
)

// The detector is an ordered list of independent classifier rules evaluated
// in fixed priority order, first match wins. It is a best-effort surface
// scan of free-form model output, not a parser: false negatives are
// acceptable, and false positives are tolerated because the result is only
// ever a suggestion surfaced to the caller.

// toolRule classifies text into one tool type when its pattern matches.
// The first capture group, when present, becomes the query.
type toolRule struct {
	tool string
	re   *regexp.Regexp
}

func (r toolRule) match(text string) (SuggestedToolUse, bool) {
	m := r.re.FindStringSubmatch(text)
	if m == nil {
		return SuggestedToolUse{}, false
	}
	query := ""
	if len(m) > 1 {
		query = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[1]), ".!?"))
	}
	if query == "" {
		return SuggestedToolUse{}, false
	}
	return SuggestedToolUse{ToolType: r.tool, Query: query}, true
}

// Shared verb/action vocabulary across rules.
const (
	needVerbs   = `(?:need|needs|should|must|require|requires|want)`
	lookActions = `(?:see|check|review|examine|analyze|retrieve|get|find|look\s+at)`
)

// toolRules are evaluated top to bottom; order is part of the contract.
var toolRules = []toolRule{
	{
		tool: ToolCodeRetrieval,
		re: regexp.MustCompile(`(?i)\b` + needVerbs + `(?:\s+to)?\s+` + lookActions +
			`\s+(?:the\s+)?code\s+(?:for|of|in|about|related\s+to)\s+([^.,\n]+)`),
	},
	{
		tool: ToolDocumentation,
		re: regexp.MustCompile(`(?i)\b` + needVerbs + `(?:\s+to)?\s+` + lookActions +
			`\s+(?:the\s+)?documentation\s+(?:for|of|on|about)\s+([^.,\n]+)`),
	},
	{
		tool: ToolFileContent,
		re: regexp.MustCompile(`(?i)\b` + needVerbs + `(?:\s+to)?\s+` + lookActions +
			`\s+(?:the\s+)?(?:contents?\s+of\s+(?:the\s+)?)?file\s+(?:at\s+)?` + "`?" + `([\w./\\-]+\.\w+)` + "`?"),
	},
	{
		tool: ToolSymbolDefinition,
		re: regexp.MustCompile(`(?i)\b` + needVerbs + `(?:\s+to)?\s+(?:find|see|check|look\s+at)\s+the\s+` +
			`(?:definition|implementation|declaration)\s+of\s+` + "`?" + `([A-Za-z_][\w.]*)` + "`?"),
	},
	{
		tool: ToolFileSearch,
		re: regexp.MustCompile(`(?i)\b` + needVerbs + `(?:\s+to)?\s+(?:search|find|locate|list)\s+` +
			`(?:for\s+)?(?:all\s+)?files\s+(?:for|with|containing|matching|related\s+to|named)\s+([^.,\n]+)`),
	},
}

// triggerPhrases activate the line-scanning fallback when none of the
// pattern rules matched.
var triggerPhrases = []string{
	"i should use the file search tool",
	"we need to examine the code",
	"using the code retrieval tool",
	"need to look up the api",
}

var lineCues = []string{"search for", "look for", "find files", "retrieve code"}

// fallbackQuery is used when a cue line carries no colon-delimited query.
const fallbackQuery = "relevant code"

// DetectToolRequest scans generated text for natural-language cues that the
// reasoning wants an external lookup. It returns the first matching rule's
// classification, or false when nothing matched.
func DetectToolRequest(text string) (SuggestedToolUse, bool) {
	for _, rule := range toolRules {
		if use, ok := rule.match(text); ok {
			return use, true
		}
	}
	return detectFallback(text)
}

// detectFallback handles texts that mention tool use without matching any
// structured pattern. It looks for a fixed trigger phrase, then scans
// line-by-line for a lookup cue; the query is whatever follows the last
// colon on the cue line.
func detectFallback(text string) (SuggestedToolUse, bool) {
	lower := strings.ToLower(text)

	triggered := false
	for _, phrase := range triggerPhrases {
		if strings.Contains(lower, phrase) {
			triggered = true
			break
		}
	}
	if !triggered {
		return SuggestedToolUse{}, false
	}

	for _, line := range strings.Split(text, "\n") {
		lowerLine := strings.ToLower(line)

		cued := false
		for _, cue := range lineCues {
			if strings.Contains(lowerLine, cue) {
				cued = true
				break
			}
		}
		if !cued {
			continue
		}

		tool := ToolCodeRetrieval
		if strings.Contains(lowerLine, "search") {
			tool = ToolFileSearch
		}

		query := fallbackQuery
		if idx := strings.LastIndex(line, ":"); idx >= 0 {
			if q := strings.TrimSpace(line[idx+1:]); q != "" {
				query = q
			}
		}

		return SuggestedToolUse{ToolType: tool, Query: query}, true
	}

	return SuggestedToolUse{}, false
}
