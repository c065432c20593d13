package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
)

const ToolAnalyzeDocument = "analyze_document"

// Server exposes the analysis pipeline as MCP tools.
type Server struct {
	analyzer ports.UploadAnalyzer
	defaults domain.AnalysisOptions
}

func NewServer(analyzer ports.UploadAnalyzer, defaults domain.AnalysisOptions) *Server {
	return &Server{analyzer: analyzer, defaults: defaults}
}

func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"docdigest",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	srv.AddTool(analyzeTool(s.defaults), s.handleAnalyze)
	return srv
}

func analyzeTool(defaults domain.AnalysisOptions) mcp.Tool {
	return mcp.NewTool(ToolAnalyzeDocument,
		mcp.WithDescription("Extract page-tagged text from a local PDF, spreadsheet or text file, "+
			"with OCR for scanned pages, and return an extractive summary and ranked keywords."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the document on the server's filesystem."),
		),
		mcp.WithNumber("summary_length",
			mcp.Description(fmt.Sprintf("Maximum number of summary sentences (default %d).", defaults.SummaryLength)),
		),
		mcp.WithNumber("top_keywords",
			mcp.Description(fmt.Sprintf("Maximum number of keywords (default %d).", defaults.TopKeywords)),
		),
		mcp.WithBoolean("want_summary", mcp.Description("Produce a summary (default true).")),
		mcp.WithBoolean("want_keywords", mcp.Description("Produce keywords (default true).")),
	)
}

type analyzeResult struct {
	Path string `json:"path"`
	domain.Rendered
	PageMethods []domain.ExtractionMethod `json:"page_methods"`
	Stages      domain.StageReport        `json:"stages"`
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := domain.AnalysisOptions{
		SummaryLength: request.GetInt("summary_length", 0),
		TopKeywords:   request.GetInt("top_keywords", 0),
		WantSummary:   request.GetBool("want_summary", true),
		WantKeywords:  request.GetBool("want_keywords", true),
	}
	if opts.SummaryLength < 0 || opts.TopKeywords < 0 {
		return mcp.NewToolResultError("summary_length and top_keywords must be positive"), nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mcp.NewToolResultError(fmt.Sprintf("document not found: %s", path)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("open document: %v", err)), nil
	}
	defer f.Close()

	analysis, err := s.analyzer.AnalyzeUpload(ctx, filepath.Base(path), opts, f)
	if err != nil {
		slog.Error("mcp_analyze_failed", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(analyzeResult{
		Path:        path,
		Rendered:    analysis.Render(),
		PageMethods: analysis.PageMethods(),
		Stages:      analysis.Report(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
