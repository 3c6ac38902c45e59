// Column commands for the gridline CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

// Flags for column add.
var (
	flagColumnAI         bool
	flagColumnPrompt     string
	flagColumnOutputType string
	flagColumnWidth      int
)

var columnCmd = &cobra.Command{
	Use:   "column",
	Short: "Manage columns in the active workspace",
}

func init() {
	columnAddCmd.Flags().BoolVar(&flagColumnAI, "ai", false, "AI column filled by enrichment")
	columnAddCmd.Flags().StringVar(&flagColumnPrompt, "prompt", "", "enrichment prompt (AI columns only)")
	columnAddCmd.Flags().StringVar(&flagColumnOutputType, "output-type", "", "AI output type: text, number, or boolean")
	columnAddCmd.Flags().IntVar(&flagColumnWidth, "width", 0, "display width in pixels")

	columnCmd.AddCommand(columnAddCmd)
	columnCmd.AddCommand(columnListCmd)
	columnCmd.AddCommand(columnDeleteCmd)
	columnCmd.AddCommand(columnWidthCmd)
}

var columnAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		col := &types.Column{
			Name:       args[0],
			Width:      flagColumnWidth,
			IsAI:       flagColumnAI,
			Prompt:     flagColumnPrompt,
			OutputType: flagColumnOutputType,
		}
		if col.IsAI && col.OutputType == "" {
			col.OutputType = types.OutputTypeText
		}
		if err := col.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "column add:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "column add:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "column add:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		created, err := s.AddColumn(col)
		if err != nil {
			if errors.Is(err, types.ErrDuplicateFieldKey) {
				fmt.Fprintf(os.Stderr, "column %q maps to a field key that already exists\n", args[0])
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "column add:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(created)
		}
		fmt.Printf("added column %s (key %s)\n", created.ColumnID, created.FieldKey)
		return nil
	},
}

var columnListCmd = &cobra.Command{
	Use:   "list",
	Short: "List columns in position order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "column list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "column list:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		columns := s.Columns()
		if flagJSON {
			return printJSON(columns)
		}
		for _, col := range columns {
			kind := "text"
			if col.IsAI {
				kind = "ai/" + col.OutputType
			}
			fmt.Printf("%-24s %-10s %4dpx  %s\n", col.FieldKey, kind, col.Width, col.Name)
		}
		return nil
	},
}

var columnDeleteCmd = &cobra.Command{
	Use:   "delete <key|id>",
	Short: "Delete a column and its cell values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "column delete:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "column delete:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		col, err := resolveColumnArg(s, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUserError)
		}

		if err := s.DeleteColumn(col.ColumnID); err != nil {
			if errors.Is(err, types.ErrProtectedColumn) {
				fmt.Fprintf(os.Stderr, "column %q is a default column and cannot be deleted\n", col.Name)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "column delete:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("deleted column", col.Name)
		return nil
	},
}

var columnWidthCmd = &cobra.Command{
	Use:   "width <key|id> <pixels>",
	Short: "Set a column's display width",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, err := strconv.Atoi(args[1])
		if err != nil || width <= 0 {
			fmt.Fprintf(os.Stderr, "invalid width %q\n", args[1])
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "column width:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "column width:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		col, err := resolveColumnArg(s, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUserError)
		}

		// The CLI exits before the debounce delay, so persist immediately.
		s.SetColumnWidth(col.ColumnID, width)
		if err := s.FlushColumnWidth(col.ColumnID); err != nil {
			fmt.Fprintln(os.Stderr, "column width:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("set %s width to %dpx\n", col.Name, width)
		return nil
	},
}
