// Export command for the gridline CLI.
package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the active workspace's grid to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		f, err := os.Create(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitUserError)
		}
		defer f.Close()

		columns := s.Columns()
		grid := s.Project()

		w := csv.NewWriter(f)

		header := make([]string, 0, len(columns))
		for _, col := range columns {
			header = append(header, col.Name)
		}
		if err := w.Write(header); err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}

		for _, row := range grid {
			record := make([]string, 0, len(columns))
			for _, col := range columns {
				record = append(record, row.Value(col.ColumnID))
			}
			if err := w.Write(record); err != nil {
				fmt.Fprintln(os.Stderr, "export:", err)
				os.Exit(exitSysError)
			}
		}

		w.Flush()
		if err := w.Error(); err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("exported %d rows to %s\n", len(grid), args[0])
		return nil
	},
}
