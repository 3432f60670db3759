// Package cli wires the hostel command tree.
package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hostelpass/internal/config"
	"hostelpass/internal/logging"
)

// Set at build time with -ldflags "-X hostelpass/internal/cli.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type app struct {
	verbosity  int
	configPath string
	cfg        *config.Config
	logCloser  io.Closer
}

// NewRootCmd builds a fresh command tree, so tests can run commands in isolation.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hostel",
		Short: "Hostel resident registry and pass service",
		Long: `hostel keeps the resident registry for the hostel blocks, serves it over
HTTP together with printable QR passes, and imports the accommodation
office's check-in workbook.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if cmd.Flags().Changed("verbose") {
				cfg.Log.Verbosity = a.verbosity
			}
			a.logCloser = logging.Setup(cfg.Log)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logCloser != nil {
				a.logCloser.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is ./"+config.DefaultFile+" when present)")

	root.AddCommand(
		newServeCmd(a),
		newImportCmd(a),
		newGenMasterKeyCmd(a),
		newListCmd(a),
		newStatsCmd(a),
		newExtractCmd(),
		newRemoteCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "hostel version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", Commit)
			fmt.Fprintf(out, "  built:  %s\n", Date)
		},
	}
}
