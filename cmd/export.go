package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a screening report as PDF or spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(out), ".")
		}
		var write func(io.Writer, report.Report) error
		switch strings.ToLower(format) {
		case "pdf":
			write = report.WritePDF
		case "xlsx":
			write = report.WriteXLSX
		default:
			return fmt.Errorf("unknown format %q (want pdf or xlsx)", format)
		}
		if out == "" {
			out = "dyscreen-report." + strings.ToLower(format)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		results, err := e.store.Results().All(cmd.Context())
		if err != nil {
			return fmt.Errorf("load results: %w", err)
		}
		r := report.Build(e.tracker.Snapshot(), results, timeNow())

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := write(f, r); err != nil {
			f.Close()
			return fmt.Errorf("write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		e.log.Info("report exported", "path", out, "format", format)
		fmt.Fprintln(cmd.OutOrStdout(), "Report written to", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "", "pdf or xlsx (default: from --out extension)")
	exportCmd.Flags().String("out", "", "Output file")
}
