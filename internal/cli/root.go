package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "strobe",
	Short: "Terminal VJ engine driven by live audio and remote live coding",
	Long: `Strobe renders generative ASCII scenes at a fixed frame rate, driven
by spectral and beat analysis of a live audio input. Live-coding clients
can stream player state into the renderer over a websocket control port.`,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("strobe version {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
