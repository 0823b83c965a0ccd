// Command ledgerctl is a cobra-based CLI administering tokens, controllers,
// and ad-hoc transfers/queries (SPEC_FULL.md §4.H), grounded on the
// teacher's cmd/cli/tokens.go and cmd/synnergy/main.go command layout. It
// drives either a running ledgerd over HTTP (--addr) or an embedded ledger
// opened directly against a local WAL/snapshot pair (--wal/--snapshot),
// for local scripting without a server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"synnergy-multiledger/internal/entity"
)

var (
	flagAddr     string
	flagWALPath  string
	flagSnapPath string
	flagGenesis  string

	activeEmbedded *embeddedClient
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "administer and drive a multi-token ledger",
	}
	cmd.PersistentFlags().StringVar(&flagAddr, "addr", "", "ledgerd base URL, e.g. http://localhost:8080 (default: embedded mode)")
	cmd.PersistentFlags().StringVar(&flagWALPath, "wal", "ledger.wal", "embedded mode: WAL file path")
	cmd.PersistentFlags().StringVar(&flagSnapPath, "snapshot", "ledger.snap", "embedded mode: snapshot file path")
	cmd.PersistentFlags().StringVar(&flagGenesis, "genesis", "", "embedded mode: hex-encoded genesis controller principal for a fresh ledger")
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if activeEmbedded != nil {
			return activeEmbedded.Close()
		}
		return nil
	}

	cmd.AddCommand(tokenCmd(), controllerCmd(), txCmd())
	return cmd
}

// resolveClient opens either the HTTP or embedded client depending on
// --addr, exactly once per invocation.
func resolveClient() (client, error) {
	if flagAddr != "" {
		return newHTTPClient(flagAddr), nil
	}
	genesis, err := decodeHexController(flagGenesis)
	if err != nil {
		return nil, fmt.Errorf("--genesis: %w", err)
	}
	c, err := newEmbeddedClient(flagWALPath, flagSnapPath, genesis)
	if err != nil {
		return nil, err
	}
	activeEmbedded = c
	return c, nil
}

func parsePrincipalFlag(s string) (entity.Principal, error) {
	if s == "" {
		return nil, fmt.Errorf("principal is required")
	}
	return decodeHexController(s)
}
