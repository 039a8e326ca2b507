package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wagneradl/opsdesk/internal/config"
	"github.com/wagneradl/opsdesk/internal/httpauth"
	"github.com/wagneradl/opsdesk/internal/server"
)

const shutdownTimeout = 10 * time.Second

var (
	serveTransport string
	servePort      string
	serveResource  string
	serveAuthURL   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the desk as an MCP server",
	Long: `Serves the desk's tools over the Model Context Protocol.

With --transport stdio (the default) the server speaks MCP on stdin/stdout.
With --transport http it serves the streamable HTTP transport, guarded by
the bearer token from MCP_BEARER_TOKEN or the config file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "Transport mode: stdio or http (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP port, only used with --transport http (default from config)")
	serveCmd.Flags().StringVar(&serveResource, "resource-url", "", "Public URL of the MCP endpoint, advertised to OAuth clients")
	serveCmd.Flags().StringVar(&serveAuthURL, "authorization-server", "", "OAuth authorization server advertised to clients")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveTransport != "" {
		cfg.Server.Transport = serveTransport
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.desk, a.exportDir())

	switch cfg.Server.Transport {
	case config.TransportStdio:
		logger.Info("MCP server starting", zap.String("transport", "stdio"))
		return srv.Run(ctx, &mcp.StdioTransport{})
	case config.TransportHTTP:
		return serveHTTP(ctx, srv)
	default:
		return fmt.Errorf("unknown transport: %s (use stdio or http)", cfg.Server.Transport)
	}
}

func serveHTTP(ctx context.Context, srv *mcp.Server) error {
	if cfg.Server.BearerToken == "" {
		logger.Warn("MCP_BEARER_TOKEN is not set, the HTTP endpoint is unauthenticated")
	}
	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return srv
	}, nil)

	auth := httpauth.Config{
		BearerToken: cfg.Server.BearerToken,
		ResourceURL: serveResource,
	}
	if serveAuthURL != "" {
		auth.AuthorizationServers = []string{serveAuthURL}
	}
	addr := ":" + cfg.Server.Port
	httpServer := httpauth.Server(addr, httpauth.Handler(auth, mcpHandler, logger.Named("http")))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("MCP server listening", zap.String("transport", "http"), zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
