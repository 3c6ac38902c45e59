// Workspace commands for the gridline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

var flagTableType string

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
}

func init() {
	workspaceCreateCmd.Flags().StringVar(&flagTableType, "type", types.TableTypePeople, "table type (people or companies)")

	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceUseCmd)
	workspaceCmd.AddCommand(workspaceDeleteCmd)
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace with its table type's default columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws := &types.Workspace{
			Name:      args[0],
			TableType: flagTableType,
		}
		if err := ws.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "workspace create:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "workspace create:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		id, err := backend.CreateWorkspace(ws)
		if err != nil {
			fmt.Fprintln(os.Stderr, "workspace create:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(ws)
		}
		fmt.Println("created workspace", id)
		return nil
	},
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "workspace list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		workspaces, err := backend.ListWorkspaces()
		if err != nil {
			fmt.Fprintln(os.Stderr, "workspace list:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(workspaces)
		}
		for _, ws := range workspaces {
			marker := " "
			if ws.WorkspaceID == configWorkspaceID {
				marker = "*"
			}
			fmt.Printf("%s %s  %-10s  %s\n", marker, ws.WorkspaceID, ws.TableType, ws.Name)
		}
		return nil
	},
}

var workspaceUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Set the active workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "workspace use:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		ws, err := backend.GetWorkspace(args[0])
		if err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "workspace %q not found\n", args[0])
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "workspace use:", err)
			os.Exit(exitSysError)
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "workspace use:", err)
			os.Exit(exitSysError)
		}
		if err := saveActiveWorkspace(configDir, ws.WorkspaceID); err != nil {
			fmt.Fprintln(os.Stderr, "workspace use:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("using workspace %s (%s)\n", ws.WorkspaceID, ws.Name)
		return nil
	},
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workspace and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "workspace delete:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.DeleteWorkspace(args[0]); err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "workspace %q not found\n", args[0])
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "workspace delete:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("deleted workspace", args[0])
		return nil
	},
}
