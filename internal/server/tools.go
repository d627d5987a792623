package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/rigi-cli/internal/marker"
	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/mj1618/rigi-cli/internal/pipeline"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// maxCaptures bounds the count argument of the capture tool.
const maxCaptures = 50

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("scan",
			mcp.WithDescription("Scan the current UI tree and list the localized texts that would be annotated. Writes no files."),
		),
		s.handleScan,
	)

	s.mcp.AddTool(
		mcp.NewTool("tree",
			mcp.WithDescription("List the UI tree in walk order with path breadcrumbs"),
			mcp.WithBoolean("boundary_only", mcp.Description("Only list the subtree of the active screen")),
		),
		s.handleTree,
	)

	s.mcp.AddTool(
		mcp.NewTool("capture",
			mcp.WithDescription("Capture the screen and write a numbered screenshot and HTML annotation pair. The first capture of a session clears the output directory."),
			mcp.WithNumber("count", mcp.Description("Number of captures to take (default: 1)")),
		),
		s.handleCapture,
	)

	s.mcp.AddTool(
		mcp.NewTool("reset_sequence",
			mcp.WithDescription("Restart artifact numbering at 1. The next capture clears the output directory."),
		),
		s.handleReset,
	)

	s.mcp.AddTool(
		mcp.NewTool("decode_marker",
			mcp.WithDescription("Decode the resource key hidden in a marked string"),
			mcp.WithString("text", mcp.Description("Text as displayed by the app"), mcp.Required()),
		),
		s.handleDecode,
	)

	s.mcp.AddTool(
		mcp.NewTool("encode_marker",
			mcp.WithDescription("Mark a text with a resource key"),
			mcp.WithString("key", mcp.Description("Resource key"), mcp.Required()),
			mcp.WithString("text", mcp.Description("Visible text")),
			mcp.WithBoolean("padded", mcp.Description("Wrap key characters in zero-width joiners")),
		),
		s.handleEncode,
	)
}

// resultToText serializes a tool result to YAML for the MCP response.
func resultToText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *Server) handleScan(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.pipelineMu.Lock()
	defer s.pipelineMu.Unlock()

	snap, err := s.cache.ReadTree(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	labels := s.pipeline.Scan(snap)
	result := output.NewScanResult(s.clock(), snap, s.pipeline.ActiveBoundary(snap), labels)
	return mcp.NewToolResultText(resultToText(result)), nil
}

func (s *Server) handleTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	boundaryOnly := boolParam(params, "boundary_only", false)

	s.pipelineMu.Lock()
	defer s.pipelineMu.Unlock()

	snap, err := s.cache.ReadTree(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := output.NewTreeResult(s.clock(), snap, s.pipeline.ActiveBoundary(snap), boundaryOnly)
	return mcp.NewToolResultText(resultToText(result)), nil
}

func (s *Server) handleCapture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	count := intParam(params, "count", 1)
	if count < 1 || count > maxCaptures {
		return mcp.NewToolResultError(fmt.Sprintf("count must be between 1 and %d, got %d", maxCaptures, count)), nil
	}

	s.pipelineMu.Lock()
	defer s.pipelineMu.Unlock()
	defer s.cache.Invalidate()

	result := output.CaptureResult{OutputDir: s.outDir, Artifacts: []*pipeline.Artifact{}}
	for range count {
		art, err := s.pipeline.Capture(ctx)
		if err != nil {
			s.logger.Warn("capture failed", zap.Error(err))
			msg := err.Error()
			if errors.Is(err, pipeline.ErrMissingCaptureTarget) {
				msg = "nothing to capture: " + msg
			}
			if len(result.Artifacts) > 0 {
				msg += "\n" + resultToText(result)
			}
			return mcp.NewToolResultError(msg), nil
		}
		result.Artifacts = append(result.Artifacts, art)
	}
	return mcp.NewToolResultText(resultToText(result)), nil
}

func (s *Server) handleReset(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.pipelineMu.Lock()
	defer s.pipelineMu.Unlock()

	s.pipeline.ResetSequence()
	return mcp.NewToolResultText(resultToText(map[string]int{"next": s.pipeline.Sequence()})), nil
}

func (s *Server) handleDecode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "text", "")
	return mcp.NewToolResultText(resultToText(output.NewMarkerResult(text))), nil
}

func (s *Server) handleEncode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	key := stringParam(params, "key", "")
	text := stringParam(params, "text", "")

	encode := marker.Encode
	if boolParam(params, "padded", false) {
		encode = marker.EncodePadded
	}
	encoded, err := encode(key, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := output.NewMarkerResult(encoded)
	result.Encoded = encoded
	return mcp.NewToolResultText(resultToText(result)), nil
}
