// Command mcp-server runs the Azure VM operations MCP server over stdio or
// streamable HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"azure-vm-mcp/pkg/azure"
	"azure-vm-mcp/pkg/config"
	"azure-vm-mcp/pkg/logger"
	"azure-vm-mcp/pkg/tools"
	"azure-vm-mcp/pkg/transport"
	"azure-vm-mcp/pkg/vmops"
)

const (
	serverName = "azure-vm-mcp"
	version    = "1.0.0"
)

func main() {
	transportFlag := flag.String("transport", "stdio", "Transport protocol (stdio, http)")
	hostFlag := flag.String("host", "localhost", "HTTP host (ignored for stdio)")
	portFlag := flag.Int("port", 8000, "HTTP port (ignored for stdio)")
	logFileFlag := flag.String("log-file", logger.DefaultLogFile, "Diagnostic log file path")
	flag.Parse()

	if err := run(*transportFlag, *hostFlag, *portFlag, *logFileFlag); err != nil {
		var missing *config.MissingEnvError
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, "Error: Missing required environment variables:")
			for _, name := range missing.Names {
				fmt.Fprintf(os.Stderr, "  - %s\n", name)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func run(transportName, host string, port int, logFile string) error {
	transportType, err := transport.ParseType(transportName)
	if err != nil {
		return err
	}

	// .env is a convenience for local runs; its absence is fine.
	_ = godotenv.Load()

	// Stdio reserves stdout/stderr for protocol frames, so console logging is
	// only enabled for HTTP.
	log, closer, err := logger.New(logger.Options{
		FilePath: logFile,
		Console:  transportType == transport.TypeHTTP,
		Level:    zerolog.InfoLevel,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	creds, err := config.FromEnv()
	if err != nil {
		return err
	}

	client, err := azure.NewClient(creds)
	if err != nil {
		return err
	}

	runner := vmops.NewRunner(client, log)
	catalog, err := tools.DefaultCatalog(runner)
	if err != nil {
		return err
	}
	dispatcher := tools.NewDispatcher(catalog, log)

	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	dispatcher.RegisterAll(mcpServer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("transport", string(transportType)).
		Str("subscription", creds.SubscriptionID).
		Msg("starting Azure VM operations MCP server")

	manager := transport.NewManager(log, transportType, host, port)
	return manager.Serve(ctx, mcpServer)
}
