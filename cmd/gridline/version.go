// Version command for the gridline CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is the release version stamped into the binary.
const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gridline version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gridline", version)
	},
}
