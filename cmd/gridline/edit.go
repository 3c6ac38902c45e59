// Interactive edit loop for the gridline CLI.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridline/internal/session"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the active workspace interactively",
	Long: `Edit the active workspace in a small interactive loop.

Commands:
  set <row#> <column> <value...>   set a cell (rows are numbered as in show)
  undo                             revert the last confirmed edit
  redo                             reapply the last undone edit
  show                             redisplay the table
  quit                             exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "edit:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "edit:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		printGrid(s.Workspace(), s.Columns(), s.Project())
		runEditLoop(s, os.Stdin)
		return nil
	},
}

// runEditLoop reads edit commands until quit or EOF. Errors are reported
// and the loop continues; a malformed command never ends the session.
func runEditLoop(s *session.Session, in *os.File) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit", "q":
			return

		case "show":
			printGrid(s.Workspace(), s.Columns(), s.Project())

		case "set":
			if len(fields) < 4 {
				fmt.Println("usage: set <row#> <column> <value...>")
				continue
			}
			if err := editSet(s, fields[1], fields[2], strings.Join(fields[3:], " ")); err != nil {
				fmt.Println(err)
			}

		case "undo":
			entry, ok, err := s.Undo()
			if err != nil {
				fmt.Println("undo failed:", err)
				continue
			}
			if !ok {
				fmt.Println("nothing to undo")
				continue
			}
			fmt.Printf("reverted to %q\n", entry.Old)

		case "redo":
			entry, ok, err := s.Redo()
			if err != nil {
				fmt.Println("redo failed:", err)
				continue
			}
			if !ok {
				fmt.Println("nothing to redo")
				continue
			}
			fmt.Printf("reapplied %q\n", entry.New)

		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

// editSet resolves a 1-based row number and a column reference, then makes
// a confirmed edit.
func editSet(s *session.Session, rowArg, colArg, value string) error {
	n, err := strconv.Atoi(rowArg)
	if err != nil {
		return fmt.Errorf("invalid row number %q", rowArg)
	}
	rows := s.Rows()
	if n < 1 || n > len(rows) {
		return fmt.Errorf("row %d out of range (1-%d)", n, len(rows))
	}

	col, err := resolveColumnArg(s, colArg)
	if err != nil {
		return err
	}

	return s.SetCell(rows[n-1].RowID, col.ColumnID, value)
}
