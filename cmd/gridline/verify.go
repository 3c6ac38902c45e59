// Verify command for the gridline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridline/internal/emailcheck"
	"github.com/mesh-intelligence/gridline/internal/enrich"
)

// Flags for verify.
var (
	flagVerifyLimit int
	flagVerifySkip  bool
	flagVerifyRows  []string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify email addresses and record their status",
	Long: `Verify the workspace's email addresses with the validation provider.

Results land in the "Email Status" column, which is created on first
use. Rows without an email are skipped. Requires EMAIL_VERIFY_URL and
EMAIL_VERIFY_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier, err := emailcheck.NewClient()
		if err != nil {
			fmt.Fprintln(os.Stderr, "verify:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "verify:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		s, err := openSession(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, "verify:", err)
			os.Exit(exitUserError)
		}
		defer s.Close()

		sum, err := enrich.VerifyEmails(cmd.Context(), s, verifier, enrich.VerifyOptions{
			RowIDs:       flagVerifyRows,
			Limit:        flagVerifyLimit,
			SkipVerified: flagVerifySkip,
			Progress:     progressPrinter("verifying"),
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "verify:", err)
			os.Exit(exitUserError)
		}

		printJobSummary("verified", sum)
		return nil
	},
}

func init() {
	verifyCmd.Flags().IntVar(&flagVerifyLimit, "limit", 0, "verify only the first N rows (0 = all)")
	verifyCmd.Flags().BoolVar(&flagVerifySkip, "skip-verified", false, "skip rows that already have a status")
	verifyCmd.Flags().StringSliceVar(&flagVerifyRows, "row", nil, "verify specific row ids (repeatable)")
}
