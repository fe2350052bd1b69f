package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X .../cmd.version=..."
var version = "dev"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "careercoach",
	Short:   "Career advice and mock interviews backed by an LLM",
	Version: version,
	Long: `careercoach proxies career questions to a text generation model and runs
six-stage mock interviews (basic, role, technical, resume, behavioral, salary).

Run "careercoach serve" to start the HTTP and MCP server.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
