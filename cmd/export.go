package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frahmantamala/savings/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger",
	Long:  `Write every money flow as JSON, YAML or CSV to stdout or a file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc, err := export.EncoderFor(exportFormat)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		deps, err := initializeDependencies(ctx, initOptions{logOutput: os.Stderr, migrate: true})
		if err != nil {
			return err
		}
		defer deps.Close()

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}

		n, err := export.Write(ctx, deps.Ledger, w, enc)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		deps.Logger.Info("ledger exported", "format", exportFormat, "rows", n, "out", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatJSON,
		"Output format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
}
