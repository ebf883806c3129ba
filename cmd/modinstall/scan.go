package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sims4tools/modinstall/pkg/filesystem"
	"github.com/sims4tools/modinstall/pkg/marker"
	"github.com/sims4tools/modinstall/pkg/paths"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List installed mods by reading their markers",
	Long: `Scan walks the immediate subfolders of --mods-root and reconstructs the
installed-mod inventory from marker files alone. This works even after the
folder was moved or edited by hand; folders without a marker are ignored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := paths.ModsRoot(modsRoot)
		if err != nil {
			return err
		}

		installed, err := marker.NewStore(filesystem.NewOS()).Scan(root)
		if err != nil {
			return err
		}
		if len(installed) == 0 {
			fmt.Println("No installed mods found")
			return nil
		}

		rows := pterm.TableData{{"Mod", "Files", "Version", "Protected", "Installed"}}
		for _, inst := range installed {
			m := inst.Marker
			protected := ""
			if m.Protected {
				protected = "yes"
			}
			rows = append(rows, []string{
				m.Name,
				strconv.Itoa(len(m.AllFiles())),
				m.Version,
				protected,
				m.InstalledAt.Format("2006-01-02"),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}

		fmt.Printf("\n%d mod(s) installed under %s\n", len(installed), root)
		return nil
	},
}
