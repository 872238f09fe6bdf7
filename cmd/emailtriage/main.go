// Emailtriage runs a single healthcare email analysis from the command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/linnemanlabs/go-core/log"
	v "github.com/linnemanlabs/go-core/version"
	"github.com/spf13/cobra"
)

const appName = "emailtriage"

var (
	verbose bool
	logCfg  log.Config
)

var rootCmd = &cobra.Command{
	Use:   "emailtriage",
	Short: "Triage patient emails with an LLM",
	Long: `Emailtriage sends one patient email to a hosted model and prints the
structured urgency summary it returns.

The provider credential is read from ANTHROPIC_API_KEY or OPENAI_API_KEY.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		vi := v.Get()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", vi.AppName, vi.Version)
		fmt.Fprintf(out, "  commit: %s\n", vi.Commit)
		fmt.Fprintf(out, "  built:  %s\n", vi.BuildDate)
		fmt.Fprintf(out, "  go:     %s\n", vi.GoVersion)
	},
}

func init() {
	v.AppName = appName
	v.Component = "cli"

	// go-core log flags, only used with --verbose
	gofs := flag.NewFlagSet(appName, flag.ContinueOnError)
	logCfg.RegisterFlags(gofs)
	rootCmd.PersistentFlags().AddGoFlagSet(gofs)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write structured logs to stderr")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(versionCmd)
}

// newLogger returns a no-op logger unless --verbose is set.
func newLogger() (log.Logger, func(), error) {
	if !verbose {
		return log.Nop(), func() {}, nil
	}
	if err := logCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("log config: %w", err)
	}
	lg, err := log.New(logCfg.ToOptions(appName))
	if err != nil {
		return nil, nil, fmt.Errorf("logger init: %w", err)
	}
	return lg.With("component", "cli"), func() { _ = lg.Sync() }, nil
}

func main() {
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
