// Command ponder-mcp exposes the ponder thinking engine over the Model
// Context Protocol on stdio: one tool per configured backend plus one
// combined tool that can fan a step out across all of them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/zoobzio/ponder"
)

const version = "0.1.0"

func main() {
	// stdout carries the MCP transport; all logging goes to stderr.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	v := viper.New()
	v.SetEnvPrefix("PONDER")
	v.AutomaticEnv()
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openrouter_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter_model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("default_mode", string(ponder.ModeAnalytical))
	v.SetDefault("generate_timeout", "90s")

	combiner := ponder.NewCombiner()
	for _, t := range buildThinkers(v, log) {
		combiner.Register(t)
	}
	if len(combiner.Backends()) == 0 {
		log.Fatal().Msg("no backends configured: set PONDER_OPENAI_API_KEY and/or PONDER_OPENROUTER_API_KEY")
	}

	s := server.NewMCPServer("ponder", version, server.WithToolCapabilities(false))

	for _, name := range combiner.Backends() {
		backend := name
		s.AddTool(
			thinkTool("think_"+backend, "Run one sequential-thinking step against the "+backend+" backend.", false),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleThink(ctx, log, combiner, backend, req)
			},
		)
	}

	s.AddTool(
		thinkTool("think_combined", "Run one sequential-thinking step against a chosen backend, or all of them concurrently.", true),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			modelType := ponder.ModelTypeAll
			if raw, ok := req.GetArguments()["modelType"].(string); ok && raw != "" {
				modelType = raw
			}
			return handleThink(ctx, log, combiner, modelType, req)
		},
	)

	log.Info().Strs("backends", combiner.Backends()).Msg("serving MCP on stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Fatal().Err(err).Msg("stdio server terminated")
	}
}

// buildThinkers constructs one Thinker per backend that has credentials
// configured.
func buildThinkers(v *viper.Viper, log zerolog.Logger) []*ponder.Thinker {
	mode := ponder.ReasoningMode(v.GetString("default_mode"))
	timeout := v.GetDuration("generate_timeout")

	var thinkers []*ponder.Thinker
	for _, b := range []struct {
		name    string
		keyVar  string
		baseVar string
		modVar  string
	}{
		{"openai", "openai_api_key", "openai_base_url", "openai_model"},
		{"openrouter", "openrouter_api_key", "openrouter_base_url", "openrouter_model"},
	} {
		apiKey := v.GetString(b.keyVar)
		if apiKey == "" {
			continue
		}
		provider := ponder.NewOpenAIProvider(b.name, v.GetString(b.baseVar), apiKey, v.GetString(b.modVar))
		thinkers = append(thinkers,
			ponder.NewThinker(b.name, provider).
				WithDefaultMode(mode).
				WithGenerateTimeout(timeout),
		)
		log.Info().Str("backend", b.name).Str("model", v.GetString(b.modVar)).Msg("backend configured")
	}
	return thinkers
}

// thinkTool declares the shared request schema. The combined variant adds
// the modelType selector.
func thinkTool(name, description string, combined bool) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("currentThinking", mcp.Required(),
			mcp.Description("Evolving input for this step. Must differ from the previous step's value.")),
		mcp.WithNumber("thoughtNumber", mcp.Required(),
			mcp.Description("Position of this thought in the sequence, starting at 1.")),
		mcp.WithNumber("totalThoughts", mcp.Required(),
			mcp.Description("Estimated total thoughts. Advisory; may be revised upward on a later call.")),
		mcp.WithBoolean("nextThoughtNeeded", mcp.Required(),
			mcp.Description("Whether the sequence should continue after this thought.")),
		mcp.WithBoolean("isRevision",
			mcp.Description("Marks this thought as superseding an earlier one (see revisesThought).")),
		mcp.WithNumber("revisesThought",
			mcp.Description("Thought number this revision supersedes.")),
		mcp.WithNumber("branchFromThought",
			mcp.Description("Ancestor thought number this branch diverges from.")),
		mcp.WithString("branchId",
			mcp.Description("Identifier grouping the thoughts of one branch.")),
		mcp.WithBoolean("needsMoreThoughts",
			mcp.Description("Advisory flag; accepted and echoed but not read by the engine.")),
		mcp.WithString("reasoningMode",
			mcp.Description("Stylistic directive for prompt assembly."),
			mcp.Enum("analytical", "creative", "critical", "reflective")),
		mcp.WithString("userContext",
			mcp.Description("Free-text context folded into the prompt verbatim.")),
		mcp.WithObject("codeContext",
			mcp.Description("Structured code context: query, files (path/language/snippet/line range/symbols), error info, project info.")),
		mcp.WithObject("externalToolResult",
			mcp.Description("Result of a previously suggested tool lookup: toolType, query, and result, all required together.")),
	}
	if combined {
		opts = append(opts, mcp.WithString("modelType",
			mcp.Description("Backend name to target, or \"all\" to fan out across every backend.")))
	}
	return mcp.NewTool(name, opts...)
}

func handleThink(ctx context.Context, log zerolog.Logger, c *ponder.Combiner, modelType string, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in ponder.Request
	raw, err := json.Marshal(req.GetArguments())
	if err == nil {
		err = json.Unmarshal(raw, &in)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	start := time.Now()
	resp := c.Process(ctx, modelType, in)
	log.Debug().
		Str("modelType", modelType).
		Int("thoughtNumber", in.ThoughtNumber).
		Bool("isError", resp.IsError).
		Dur("took", time.Since(start)).
		Msg("thinking step processed")

	contents := make([]mcp.Content, 0, len(resp.Content))
	for _, block := range resp.Content {
		contents = append(contents, mcp.NewTextContent(block.Text))
	}
	return &mcp.CallToolResult{Content: contents, IsError: resp.IsError}, nil
}
