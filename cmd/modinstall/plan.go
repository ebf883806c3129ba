package main

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sims4tools/modinstall/pkg/installer"
	"github.com/sims4tools/modinstall/pkg/planner"
)

var (
	planIncludeExtras bool
	planNoRootLogic   bool
	planDest          string
	planRoot          string
	planRootSet       bool
)

var planCmd = &cobra.Command{
	Use:   "plan <archive>",
	Short: "Preview an install without touching the Mods folder",
	Long: `Plan runs the same resolution and mapping as install and prints the result:
the detected shape, the chosen root with its justification, and every file
that would be copied. Nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := planner.DefaultOptions()
		opts.IncludeExtras = planIncludeExtras
		opts.UseModRootLogic = !planNoRootLogic
		opts.DestName = planDest
		if planRootSet {
			opts.RootOverride = &planRoot
		}

		plan, err := installer.Default().Plan(args[0], opts)
		if err != nil {
			return err
		}

		dest := plan.DestName
		if modsRoot != "" {
			dest = filepath.Join(modsRoot, plan.DestName)
		}

		fmt.Printf("Shape:    %s\n", plan.Shape)
		if plan.ModRoot != "" {
			fmt.Printf("Mod root: %s\n", plan.ModRoot)
		}
		fmt.Printf("Why:      %s\n", plan.Justification)
		fmt.Printf("Dest:     %s\n\n", dest)

		rows := pterm.TableData{{"File", "Class"}}
		for _, pe := range plan.Entries {
			rows = append(rows, []string{pe.RelPath, pe.Class.String()})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}

		fmt.Printf("\n%d file(s) would be installed\n", len(plan.Entries))
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVar(&planIncludeExtras, "include-extras", false, "Also plan documentation and image files")
	planCmd.Flags().BoolVar(&planNoRootLogic, "no-root-logic", false, "Skip root detection and map archive paths verbatim")
	planCmd.Flags().StringVar(&planDest, "dest", "", "Destination subfolder name (sanitized)")
	planCmd.Flags().StringVar(&planRoot, "root", "", "Force a top-level directory as the mod root (empty string forces the archive root)")

	planCmd.PreRun = func(cmd *cobra.Command, args []string) {
		planRootSet = cmd.Flags().Changed("root")
	}
}
