package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/Faultbox/ucmtool/pkg/formats"
)

func (a *app) newDumpCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "dump <file.ucm>",
		Short: "Print the decoded model structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := formats.ParseUCMFile(args[0])
			if err != nil {
				return err
			}

			cfg := spew.NewDefaultConfig()
			cfg.DisableCapacities = true
			cfg.DisablePointerAddresses = true
			cfg.MaxDepth = depth
			cfg.Fdump(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "Maximum nesting depth to print (0 = unlimited)")
	return cmd
}
