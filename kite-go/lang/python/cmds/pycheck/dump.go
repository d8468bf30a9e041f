package main

import (
	"io/ioutil"
	"os"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonparser"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontreesitter"
	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func dumpCmd() *cobra.Command {
	var treesitter bool

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "print the syntax tree the checker sees for a file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			src, err := ioutil.ReadFile(args[0])
			fail(err)

			ctx := kitectx.Background().WithLogger(contextLogger(logger, debug))

			var mod *pythonast.Module
			if treesitter {
				mod, err = pythontreesitter.Parse(ctx, src)
			} else {
				mod, err = pythonparser.Parse(ctx, src, pythonparser.Options{ErrorMode: pythonparser.Recover})
			}
			if mod == nil {
				fail(err)
			}
			if err != nil {
				logger.Warn("syntax errors", zap.String("path", args[0]), zap.Error(err))
			}

			pythonast.PrintPositions(mod, os.Stdout, "\t")
		},
	}

	cmd.Flags().BoolVar(&treesitter, "treesitter", false, "parse with tree-sitter")

	return cmd
}
