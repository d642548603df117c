// Package main is the entry point for the MCPF CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/veritrust/mcpf-go/pkg/mcpf"
)

var (
	flagANSURL      string
	flagRegistryURL string
	flagA2AURL      string
	flagTimeout     time.Duration
	flagInsecure    bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "mcpf",
	Short: "MCPF trust resolution CLI",
	Long: `Trust tooling for autonomous agents.
Resolves agent names, verifies credentials and card signatures, checks
delegation policies, and searches the MCP server directory.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagANSURL, "ans-url", mcpf.DefaultANSURL, "ANS directory base URL")
	rootCmd.PersistentFlags().StringVar(&flagRegistryURL, "registry-url", "", "MCP registry base URL (defaults to <ans-url>/mcp)")
	rootCmd.PersistentFlags().StringVar(&flagA2AURL, "a2a-url", "", "A2A policy service base URL")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// newFacade builds the client facade from the global flags.
func newFacade() *mcpf.MCPF {
	return mcpf.New(mcpf.Config{
		ANSURL:             flagANSURL,
		RegistryURL:        flagRegistryURL,
		A2AURL:             flagA2AURL,
		Timeout:            flagTimeout,
		InsecureSkipVerify: flagInsecure,
	})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
