package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sims4tools/modinstall/pkg/executor"
	"github.com/sims4tools/modinstall/pkg/installer"
	"github.com/sims4tools/modinstall/pkg/paths"
)

var (
	installIncludeExtras bool
	installNoRootLogic   bool
	installModeFlag      string
	installForce         bool
	installDest          string
	installRoot          string
	installVersion       string
	installURL           string
	installAsAddon       bool
	installAddonName     string
	installRootSet       bool
)

var installCmd = &cobra.Command{
	Use:   "install <archive>",
	Short: "Install a mod archive into the Mods folder",
	Long: `Install unpacks one archive (.zip, .tar.gz, .7z, .rar), a directory, or a
loose .package/.ts4script file into its own subfolder under --mods-root.

The subfolder name, the chosen archive root and the file selection are all
deterministic; use "modinstall plan" first to preview them. Installing over
an existing mod requires an explicit --mode (replace or merge) or --addon.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := paths.ModsRoot(modsRoot)
		if err != nil {
			return err
		}

		mode, err := executor.ParseMode(installModeFlag)
		if err != nil {
			return err
		}

		opts := installer.DefaultOptions()
		opts.Planner.IncludeExtras = installIncludeExtras
		opts.Planner.UseModRootLogic = !installNoRootLogic
		opts.Planner.DestName = installDest
		if installRootSet {
			opts.Planner.RootOverride = &installRoot
		}
		opts.Exec = executor.Options{
			Mode:           mode,
			ForceProtected: installForce,
			Version:        installVersion,
			URL:            installURL,
			AsAddon:        installAsAddon,
			AddonName:      installAddonName,
		}

		res, err := installer.Default().Install(args[0], root, opts)
		if err != nil {
			return err
		}

		fmt.Printf("Installed %q: %d file(s) in %s\n", res.Marker.Name, len(res.Installed), res.DestDir)
		return nil
	},
}

func init() {
	installCmd.Flags().BoolVar(&installIncludeExtras, "include-extras", false, "Also install documentation and image files")
	installCmd.Flags().BoolVar(&installNoRootLogic, "no-root-logic", false, "Skip root detection and map archive paths verbatim")
	installCmd.Flags().StringVar(&installModeFlag, "mode", "", "How to treat an existing install: replace or merge")
	installCmd.Flags().BoolVar(&installForce, "force", false, "Override the protected-mod guard")
	installCmd.Flags().StringVar(&installDest, "dest", "", "Destination subfolder name (sanitized)")
	installCmd.Flags().StringVar(&installRoot, "root", "", "Force a top-level directory as the mod root (empty string forces the archive root)")
	installCmd.Flags().StringVar(&installVersion, "mod-version", "", "Version string recorded in the marker")
	installCmd.Flags().StringVar(&installURL, "url", "", "Source URL recorded in the marker")
	installCmd.Flags().BoolVar(&installAsAddon, "addon", false, "Record this install as an add-on to an existing mod")
	installCmd.Flags().StringVar(&installAddonName, "addon-name", "", "Name for the add-on record")

	installCmd.MarkFlagsMutuallyExclusive("mode", "addon")
	installCmd.MarkFlagsMutuallyExclusive("no-root-logic", "root")

	// "" is a meaningful --root value (force the archive root), so presence
	// has to be tracked separately from the value.
	installCmd.PreRun = func(cmd *cobra.Command, args []string) {
		installRootSet = cmd.Flags().Changed("root")
	}
}
