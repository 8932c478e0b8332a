package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "twsense",
	Short: "Tailwind CSS class linter, sorter and inspector",
	Long: `Find Tailwind class lists in HTML, Razor, JSX and CSS files.
Report classes that override each other, put class lists into Tailwind's
canonical order and show the CSS a class generates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().String("color", "auto", "Color output: auto|always|never")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String("config", ".twsense.yaml", "Config file path")
	rootCmd.PersistentFlags().String("root", ".", "Project root")
	completeValues(rootCmd, "color", "auto", "always", "never")
	completeValues(rootCmd, "log-level", "debug", "info", "warn", "error")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
