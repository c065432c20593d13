package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/docdigest/internal/adapters/mcp"
	"github.com/kirillkom/docdigest/internal/bootstrap"
	"github.com/kirillkom/docdigest/internal/config"
	"github.com/kirillkom/docdigest/internal/observability/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}
	// stdout is the MCP transport.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := bootstrap.NewPipeline(ctx, cfg, nil)
	if err != nil {
		slog.Error("bootstrap_error", "error", err)
		os.Exit(1)
	}

	srv := mcpadapter.NewServer(pipeline.UploadUC, pipeline.Defaults).MCPServer(version)
	slog.Info("mcp_serving_stdio", "version", version)
	if err := server.ServeStdio(srv); err != nil {
		slog.Error("mcp_serve_error", "error", err)
		os.Exit(1)
	}
}
