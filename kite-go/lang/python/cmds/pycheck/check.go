package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/kiteco/pycall/kite-go/lang/python/pythoncheck"
	"github.com/kiteco/pycall/kite-golib/errors"
	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func checkCmd() *cobra.Command {
	var configPath string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "report calls whose arguments do not fit the callee, exiting with status 1 if any are found",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			config := pythoncheck.DefaultConfig()
			if configPath != "" {
				var err error
				config, err = pythoncheck.LoadConfig(configPath)
				fail(err)
			}

			checker, err := pythoncheck.NewChecker(config)
			fail(err)
			defer checker.Close()

			ctx := kitectx.Background().WithLogger(contextLogger(logger, debug))

			var found int
			for _, path := range args {
				n, err := checkFile(ctx, checker, path, timeout)
				if err != nil {
					logger.Error("error checking file", zap.String("path", path), zap.Error(err))
				}
				found += n
			}
			logger.Sync()

			if found > 0 {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "maximum time spent on each file")

	return cmd
}

// checkFile prints the diagnostics for path as file:line:col: kind: message,
// with one-based lines and columns, and returns how many were printed
func checkFile(ctx kitectx.Context, checker *pythoncheck.Checker, path string, timeout time.Duration) (int, error) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "error reading %s", path)
	}

	var report pythoncheck.Report
	var checkErr error
	err = ctx.WithTimeout(timeout, func(ctx kitectx.Context) error {
		report, checkErr = checker.Check(ctx, src)
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "checking %s timed out", path)
	}

	for _, d := range report.Diagnostics {
		fmt.Printf("%s:%d:%d: %s: %s\n", path, d.Line+1, d.Column+1, d.Kind, d.Message)
	}
	logger.Debug("checked file",
		zap.String("path", path),
		zap.Int("calls", report.Calls),
		zap.Int("diagnostics", len(report.Diagnostics)))

	return len(report.Diagnostics), checkErr
}
