// ucmtool inspects and converts UCM model files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/ucmtool/internal/config"
	"github.com/Faultbox/ucmtool/internal/logger"
)

const version = "1.0.0"

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the loaded configuration to subcommands.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ucmtool",
		Short: "Inspect and convert UCM model files",
		Long: `ucmtool reads and writes UCM binary models (Earth Squad legacy files and
Crazy Machines files with hitboxes) and converts them to and from Wavefront
OBJ and glTF.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.Named(cmd.Name())
			a.log.Debug("config loaded",
				zap.String("level", cfg.Logging.Level),
				zap.String("config", config.ConfigPath(cmd.Flags())))
			return nil
		},
	}
	config.RegisterGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		a.newInfoCmd(),
		a.newOBJCmd(),
		a.newUCMCmd(),
		a.newGLTFCmd(),
		a.newConvertCmd(),
		a.newDumpCmd(),
		a.newConfigCmd(),
	)
	return root
}
