// Drillbook - choreography editor core for mounted drill teams.
// Edits, plays back, and persists drill routines on an 80x40m arena.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// CLI flags
var (
	configDir string
	verbose   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "drillbook",
	Short: "Drillbook - mounted drill team choreography editor",
	Long: `Drillbook is the editing and playback core for mounted drill team
choreography: frames of horse positions on an 80x40 meter arena, with
gait-derived timing, group transforms, and undo history.

Run 'drillbook serve' to start the editor server.`,
	Version: fmt.Sprintf("%s (%s)", version, commit),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", ".", "Directory containing drillbook.cfg.json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(demoCmd)
}
