// Cell commands for the gridline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cellCmd = &cobra.Command{
	Use:   "cell",
	Short: "Read and write individual cells",
}

func init() {
	cellCmd.AddCommand(cellSetCmd)
	cellCmd.AddCommand(cellGetCmd)
}

var cellSetCmd = &cobra.Command{
	Use:   "set <row-id> <column> <value>",
	Short: "Set a cell value (recorded for undo)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cell set:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cell set:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		col, err := resolveColumnArg(s, args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUserError)
		}

		if err := s.SetCell(args[0], col.ColumnID, args[2]); err != nil {
			fmt.Fprintln(os.Stderr, "cell set:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("set %s = %q\n", col.Name, args[2])
		return nil
	},
}

var cellGetCmd = &cobra.Command{
	Use:   "get <row-id> <column>",
	Short: "Print a cell value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cell get:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cell get:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		col, err := resolveColumnArg(s, args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUserError)
		}

		value := s.CellValue(args[0], col.ColumnID)
		if flagJSON {
			return printJSON(map[string]string{
				"row_id":    args[0],
				"column_id": col.ColumnID,
				"value":     value,
			})
		}
		fmt.Println(value)
		return nil
	},
}
