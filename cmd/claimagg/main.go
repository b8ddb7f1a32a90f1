// claimagg aggregates Kwenta executor-fee claims into a single Groth16
// proof over BN254.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/axiom-crypto/axiom-kwenta-incentives/config"
	"github.com/axiom-crypto/axiom-kwenta-incentives/internal/logging"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// CLI flags
var (
	configFile string
	claimFlags []string
	outFile    string
	useFixture bool
)

// Populated by PersistentPreRunE.
var (
	cfg config.Config
	log zerolog.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "claimagg",
	Short: "Aggregate Kwenta fee claims into one Groth16 proof",
	Long: `claimagg validates a batch of up to 16 ConditionalOrderExecuted logs and
proves that they are distinct, emitted by the reference contract and owned
by one account, exposing the first and last claim ids, the account and the
summed executor fee as public inputs.

Settings come from --config, CLAIMAGG_* environment variables (also read
from ./.env) and flags, flags winning.`,
	Version:           fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML config file")
	pf.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.Bool("log-json", false, "Force JSON log output")
	pf.String("rpc-url", "", "JSON-RPC endpoint used to resolve claim logs")
	pf.Int("workers", 4, "Concurrent log lookups")
	pf.Int("cache-size", 1024, "Resolved log cache entries")
	pf.String("keys-dir", "keys", "Directory holding claim.pk and claim.vk")
	pf.String("reference-contract", "", "Contract that must emit every claimed log")
	pf.String("event-schema", "", "topic0 every claimed log must carry")
	pf.Int("account-word", 0, "Data word holding the account id")
	pf.String("account-limb", "", "Limb of the account word (lo, hi)")
	pf.Int("fee-word", 0, "Data word holding the fee")

	rootCmd.AddCommand(idCmd, checkCmd, setupCmd, proveCmd, exportVerifierCmd)
}

// loadConfig reads an optional .env from the working directory before
// resolving settings, so CLAIMAGG_* values can live there.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}
	var err error
	cfg, err = config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	log, err = logging.New(cfg.LogLevel, cfg.LogJSON)
	return err
}
