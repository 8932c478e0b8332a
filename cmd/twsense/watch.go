package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsense/internal/logging"
	"github.com/yacobolo/twsense/internal/projectconfig"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run lint whenever the project configuration changes",
	Long: `Watch .twsense.yaml and the CSS entry file of the project and lint again
after every change. Stops on interrupt.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringSlice("paths", nil, "File patterns to scan (default: all supported files)")
	f.String("severity", "", "Severity of conflicts: error|warning|info|none (default: warning)")
	f.String("output-format", "", "Output format: issues|summary|full|json|markdown")
	f.Duration("debounce", projectconfig.DefaultDebounce, "Quiet period before reloading")
	completeValues(watchCmd, "output-format", outputFormats...)
	completeValues(watchCmd, "severity", severities...)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	root := getStringWithFallback("root", "root", ".")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	watcher, err := projectconfig.NewWatcher(engine.Store(), root,
		projectconfig.WithDebounce(debounce),
		projectconfig.WithWatcherLogger(logger))
	if err != nil {
		return err
	}

	reloaded := make(chan struct{}, 1)
	engine.Store().Subscribe(func(_, _ *projectconfig.Config) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	for {
		select {
		case <-reloaded:
			logger.Info("project configuration loaded", logging.FieldRoot, root)
			if err := lintOnce(ctx, cmd, engine, cmd.OutOrStdout()); err != nil {
				var exit *exitError
				if !errors.As(err, &exit) {
					logger.Error("lint failed", logging.FieldError, err)
				}
			}
		case err := <-done:
			return err
		}
	}
}
