package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsense/internal/fsutil"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .twsense.yaml config file",
	Long:  `Create a .twsense.yaml configuration file in the project root with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		root, _ := cmd.Flags().GetString("root")
		path := filepath.Join(root, ".twsense.yaml")

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := fsutil.WriteAtomic(cmd.Context(), path, []byte(defaultConfig)); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

const defaultConfig = `# twsense configuration
# Docs: https://github.com/yacobolo/twsense

# Shared settings
verbose: false
color: auto              # auto | always | never
jobs: 0                  # 0 = number of CPUs

# Project settings (also read by editors and the watch command)
project:
  version: v4            # v3 | v4
  # css: src/app.css     # entry file; @theme colors and variables are read from it
  prefix: ""
  # colors:
  #   brand: "#0ea5e9"
  # allow: ["*"]
  # block: []

# Linting settings
lint:
  paths:
    - "**/*.{html,htm,cshtml,razor,templ,js,jsx,ts,tsx,css}"
  severity: warning        # error | warning | info | none
  unknown-severity: none   # error | warning | info | none
  check-sorted: false
  strict: false
  output-format: issues    # issues | summary | full | json | markdown
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true

# Sorting settings
sort:
  write: false
  diff: false
  check: false
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
