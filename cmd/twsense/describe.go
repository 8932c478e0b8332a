package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yacobolo/twsense"
	"github.com/yacobolo/twsense/internal/csscolor"
	"github.com/yacobolo/twsense/internal/resolve"
)

var describeCmd = &cobra.Command{
	Use:   "describe CLASS...",
	Short: "Show the CSS a Tailwind class generates",
	Long: `Print the declarations each class generates, grouped by category, plus a
color swatch for classes that apply a color.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDescribe(cmd, cmd.OutOrStdout(), args)
	},
}

func init() {
	describeCmd.Flags().String("file", "", "Describe classes as used in this file (selects the project)")
}

func runDescribe(cmd *cobra.Command, out io.Writer, classes []string) error {
	_, engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}

	path := getStringWithFallback("file", "file", "")
	if path == "" {
		path = filepath.Join(getStringWithFallback("root", "root", "."), "index.html")
	}
	useColors := twsense.ColorEnabled(getStringWithFallback("color", "color", "auto"), out)

	unknown := 0
	for i, class := range classes {
		if i > 0 {
			fmt.Fprintln(out)
		}
		desc, ok := engine.Describe(path, class)
		if !ok {
			unknown++
			fmt.Fprintf(out, "%s: %s\n", twsense.RenderStyle(twsense.StyleCyan, class, useColors),
				twsense.RenderStyle(twsense.StyleYellow, "unknown class", useColors))
			continue
		}

		header := twsense.RenderStyle(twsense.StyleCyan, class, useColors)
		if c, ok := engine.Color(path, class); ok {
			header += " " + swatch(c, useColors)
		}
		fmt.Fprintln(out, header)

		groups := resolve.Categorize(desc)
		for _, category := range resolve.Categories {
			decls := groups[category]
			if len(decls) == 0 {
				continue
			}
			fmt.Fprintf(out, "  %s\n", twsense.RenderStyle(twsense.StyleGray, string(category), useColors))
			for _, d := range decls {
				fmt.Fprintf(out, "    %s\n", d.String())
			}
		}
	}

	if unknown > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// swatch renders a color sample followed by its CSS value.
func swatch(c csscolor.RGBA, useColors bool) string {
	if !useColors {
		return c.String()
	}
	block := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("   ")
	return block + " " + c.String()
}
