package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/spf13/cobra"
)

var flagOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write expenses as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default stdout)")
	addFilterFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}
	return withSession(func(ctx context.Context, e *env, sess *model.Session) error {
		var w io.Writer = os.Stdout
		if flagOut != "" {
			out, err := os.Create(flagOut) //nolint:gosec // user-chosen output path
			if err != nil {
				return fmt.Errorf("creating %s: %w", flagOut, err)
			}
			defer out.Close()
			w = out
		}

		n, err := e.ledger.ExportCSV(ctx, sess, w, f)
		if err != nil {
			return err
		}
		if flagOut != "" {
			info("  Wrote %d expenses to %s\n", n, flagOut)
		}
		return nil
	})
}
