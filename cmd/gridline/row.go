// Row commands for the gridline CLI.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var rowCmd = &cobra.Command{
	Use:   "row",
	Short: "Manage rows in the active workspace",
}

func init() {
	rowCmd.AddCommand(rowAddCmd)
	rowCmd.AddCommand(rowDeleteCmd)
}

var rowAddCmd = &cobra.Command{
	Use:   "add [count]",
	Short: "Append empty rows (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				fmt.Fprintf(os.Stderr, "invalid row count %q\n", args[0])
				os.Exit(exitUserError)
			}
			count = n
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "row add:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "row add:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		rows, err := s.AddRows(count)
		if err != nil {
			fmt.Fprintln(os.Stderr, "row add:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(rows)
		}
		for _, r := range rows {
			fmt.Println("added row", r.RowID)
		}
		return nil
	},
}

var rowDeleteCmd = &cobra.Command{
	Use:   "delete <row-id>...",
	Short: "Delete rows and their cell values",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "row delete:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "row delete:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		if err := s.DeleteRows(args); err != nil {
			fmt.Fprintln(os.Stderr, "row delete:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("deleted %d rows\n", len(args))
		return nil
	},
}
