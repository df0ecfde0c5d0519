package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/camuig/trade-quest/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV or XLSX",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	exportFormat string
	exportOut    string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout for csv)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "xlsx" {
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	if exportFormat == "xlsx" && exportOut == "" {
		return fmt.Errorf("xlsx export needs --output")
	}

	e, done, err := openEnv()
	if err != nil {
		return err
	}
	defer done()

	trades, err := e.svc.Trades()
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	loc := e.cfg.Location()
	if exportFormat == "xlsx" {
		err = export.WriteXLSX(w, trades, loc)
	} else {
		err = export.WriteCSV(w, trades, loc)
	}
	if err != nil {
		return err
	}

	if exportOut != "" {
		good.Fprintf(cmd.ErrOrStderr(), "✓ %d trades written to %s\n", len(trades), exportOut)
	}
	return nil
}
