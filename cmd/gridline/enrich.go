// Enrich command for the gridline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridline/internal/enrich"
	"github.com/mesh-intelligence/gridline/internal/llm"
)

// Flags for enrich.
var (
	flagEnrichLimit        int
	flagEnrichSkipExisting bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <column>",
	Short: "Fill an AI column using the text-generation provider",
	Long: `Fill an AI column for the workspace's rows.

Each row's non-AI column values are sent as context together with the
column's prompt. Failed rows are skipped and counted; the rest keep
their generated values. Requires OPENAI_API_KEY.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := llm.NewOpenAIClient()
		if err != nil {
			fmt.Fprintln(os.Stderr, "enrich:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "enrich:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "enrich:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		col, err := resolveColumnArg(s, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUserError)
		}

		sum, err := enrich.EnrichColumn(cmd.Context(), s, gen, col.ColumnID, enrich.Options{
			Limit:        flagEnrichLimit,
			SkipExisting: flagEnrichSkipExisting,
			Progress:     progressPrinter("enriching"),
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "enrich:", err)
			os.Exit(exitUserError)
		}

		printJobSummary("enriched", sum)
		return nil
	},
}

func init() {
	enrichCmd.Flags().IntVar(&flagEnrichLimit, "limit", 0, "enrich only the first N rows (0 = all)")
	enrichCmd.Flags().BoolVar(&flagEnrichSkipExisting, "skip-existing", false, "skip rows that already have a value")
}

func printJobSummary(verb string, sum enrich.Summary) {
	if flagJSON {
		_ = printJSON(sum)
		return
	}
	if sum.Failed > 0 {
		fmt.Printf("%s %d of %d rows, %d failed\n", verb, sum.Succeeded, sum.Total, sum.Failed)
		return
	}
	fmt.Printf("%s %d rows\n", verb, sum.Succeeded)
}
