// Show command for the gridline CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

// showColumnChars converts a pixel width to a character budget for the
// text table. Roughly eight pixels per character, clamped to keep the
// table readable.
func showColumnChars(width int) int {
	chars := width / 8
	if chars < 6 {
		chars = 6
	}
	if chars > 40 {
		chars = 40
	}
	return chars
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the active workspace as a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		columns := s.Columns()
		grid := s.Project()

		if flagJSON {
			out := make([]map[string]string, 0, len(grid))
			for _, row := range grid {
				record := map[string]string{"row_id": row.RowID}
				for _, col := range columns {
					record[col.FieldKey] = row.Value(col.ColumnID)
				}
				out = append(out, record)
			}
			return printJSON(out)
		}

		printGrid(s.Workspace(), columns, grid)
		return nil
	},
}

// printGrid renders the projected grid as a fixed-width text table.
func printGrid(ws *types.Workspace, columns []types.Column, grid []types.GridRow) {
	fmt.Printf("%s (%s, %d rows)\n", ws.Name, ws.TableType, len(grid))

	header := make([]string, 0, len(columns))
	for _, col := range columns {
		header = append(header, pad(col.Name, showColumnChars(col.Width)))
	}
	// Leading spaces align the header with the numbered rows below.
	fmt.Printf("     %s\n", strings.Join(header, "  "))

	for i, row := range grid {
		line := make([]string, 0, len(columns))
		for _, col := range columns {
			line = append(line, pad(row.Value(col.ColumnID), showColumnChars(col.Width)))
		}
		fmt.Printf("%3d  %s\n", i+1, strings.Join(line, "  "))
	}
}

// pad truncates or right-pads s to exactly n characters.
func pad(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		if n > 1 {
			return string(r[:n-1]) + "…"
		}
		return string(r[:n])
	}
	return s + strings.Repeat(" ", n-len(r))
}
