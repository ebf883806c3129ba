package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sims4tools/modinstall/pkg/logging"
)

var (
	verbosity int
	modsRoot  string

	rootCmd = &cobra.Command{
		Use:   "modinstall",
		Short: "A deterministic Sims 4 mod installer",
		Long: `modinstall unpacks mod archives into a Mods folder the same way every
time: it finds the real content inside the archive, drops macOS litter and
thumbnails, and records what it installed in a per-mod marker file so updates
and audits never depend on a central database.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&modsRoot, "mods-root", "", "Destination Mods folder (default: $MODINSTALL_MODS_ROOT, then the game's Documents location)")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

// Version information, set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("modinstall version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}
