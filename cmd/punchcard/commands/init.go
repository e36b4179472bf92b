package commands

import (
	"fmt"

	"github.com/dyluth/punchcard/internal/printer"
	"github.com/dyluth/punchcard/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter punchcard.yml",
	Long: `Write a commented punchcard.yml with every default spelled out.

Use --force to overwrite an existing file.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing punchcard.yml")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to write punchcard.yml into")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := scaffold.Initialize(initDir, forceInit)
	if err != nil {
		return printer.Error(
			"initialization failed",
			err.Error(),
			[]string{fmt.Sprintf("Overwrite it:\n  punchcard init --force --dir %s", initDir)},
		)
	}
	scaffold.PrintSuccess(path)
	return nil
}
