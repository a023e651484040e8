// Package display holds output helpers shared by CLI commands.
package display

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ShouldOutputJSON reports whether a command should emit JSON instead of
// human-readable output, based on the local and global --json flags
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json")
	return globalFlag
}

// OutputJSON pretty-prints v as JSON to stdout
func OutputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
