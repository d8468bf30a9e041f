package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug  bool
	logger = zap.NewNop()
)

func fail(err error) {
	if err != nil {
		logger.Error("fatal", zap.Error(err))
		logger.Sync()
		os.Exit(2)
	}
}

func main() {
	root := &cobra.Command{
		Use:   "pycheck",
		Short: "check the arguments of python calls against the parameters of their callees",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(debug)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log analysis details to stderr")

	root.AddCommand(checkCmd())
	root.AddCommand(dumpCmd())

	if err := root.Execute(); err != nil {
		os.Exit(2)
	}
}
