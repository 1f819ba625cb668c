package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doitintl/hello/gcp-footprint/cmd/api"
	"github.com/doitintl/hello/gcp-footprint/common"
	"github.com/doitintl/hello/gcp-footprint/discovery/service"
	"github.com/doitintl/hello/gcp-footprint/framework/connection"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

var rootCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Map the GCP footprint reachable by the current credentials",
	Long: `Discover billing accounts, projects, API keys, enabled services, IAM bindings
and service accounts, then report the risky or wasteful ones.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openSession wires a discovery session the same way the API server does. The returned
// func releases the session and its connections.
func openSession(ctx context.Context) (*service.Session, func(), error) {
	cfg := common.LoadConfig()

	logging, err := logger.NewLogging(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logging: %w", err)
	}

	conn, err := connection.NewConnection(ctx, logging, cfg)
	if err != nil {
		logging.Close()
		return nil, nil, fmt.Errorf("initialize connections: %w", err)
	}

	session := api.NewSession(logging.Logger, conn, cfg)

	release := func() {
		session.Close()
		conn.Close()
		logging.Close()
	}

	return session, release, nil
}
