// Import commands for the gridline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridline/internal/contacts"
	"github.com/mesh-intelligence/gridline/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import external data into the active workspace",
}

func init() {
	importCmd.AddCommand(importCSVCmd)
	importCmd.AddCommand(importContactsCmd)
}

var importCSVCmd = &cobra.Command{
	Use:   "csv <file>",
	Short: "Import a CSV file",
	Long: `Import a CSV file into the active workspace.

The first record is the header row. Each header is matched fuzzily
against existing column names; unmatched headers become new columns.
Blank values produce no cells.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "import csv:", err)
			os.Exit(exitUserError)
		}
		defer f.Close()

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "import csv:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "import csv:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		sum, err := importer.ImportCSV(cmd.Context(), s, f, importer.Options{
			Progress: progressPrinter("importing cells"),
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "import csv:", err)
			os.Exit(exitUserError)
		}

		printImportSummary(sum)
		return nil
	},
}

var importContactsCmd = &cobra.Command{
	Use:   "contacts <list-id>",
	Short: "Import a contact list from the contacts provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := contacts.NewClient()
		if err != nil {
			fmt.Fprintln(os.Stderr, "import contacts:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "import contacts:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "import contacts:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		sum, err := importer.ImportContacts(cmd.Context(), s, client, args[0], importer.Options{
			Progress: progressPrinter("importing cells"),
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "import contacts:", err)
			os.Exit(exitSysError)
		}

		printImportSummary(sum)
		return nil
	},
}

func printImportSummary(sum importer.Summary) {
	if flagJSON {
		_ = printJSON(sum)
		return
	}
	if sum.Failed > 0 {
		fmt.Printf("imported %d rows, %d cells, %d cell writes failed\n", sum.Rows, sum.Cells, sum.Failed)
		return
	}
	fmt.Printf("imported %d rows, %d cells\n", sum.Rows, sum.Cells)
}
