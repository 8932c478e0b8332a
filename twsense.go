// Package twsense provides Tailwind CSS class intelligence for source files:
// it finds class lists in HTML, Razor, JS and CSS, describes and colors each
// class, reports classes that override each other and rewrites class lists
// into Tailwind's canonical order.
//
// # Engine
//
// An Engine ties the per-version class catalogs to per-project settings:
//
//	engine := twsense.New()
//	res, err := engine.Analyze(ctx, "views/index.cshtml", text)
//	desc, ok := engine.Describe("views/index.cshtml", "hover:bg-blue-500/50")
//
// # Linting
//
// Lint reports conflicting classes in golangci-lint format:
//
//	result, err := engine.Lint(ctx, twsense.LintConfig{
//		Patterns: []string{"src/**/*.{html,tsx}"},
//		Severity: twsense.SeverityWarning,
//	})
//
// # Sorting
//
// SortFiles rewrites every class list of the matched files in place, or
// only reports what would change.
//
// # CLI Tool
//
// twsense also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/twsense/cmd/twsense@latest
package twsense
