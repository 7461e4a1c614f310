package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/ucmtool/internal/config"
	"github.com/Faultbox/ucmtool/pkg/formats"
)

func (a *app) newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <src.ucm> <dst.ucm>",
		Short: "Rewrite a UCM model as the legacy or V2 variant",
		Long: `Rewrite a UCM model as the legacy or V2 variant. Converting to legacy drops
all hitboxes. The version tag is kept unless --version-tag is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(args[0], args[1], cmd.Flags().Changed(config.FlagVersion))
		},
	}
	config.RegisterExportFlags(cmd.Flags())
	return cmd
}

func (a *app) runConvert(src, dst string, overrideVersion bool) error {
	u, err := formats.ParseUCMFile(src)
	if err != nil {
		return err
	}

	target := a.cfg.ExportFormat()
	if target == formats.UCMFormatLegacy && u.HasHitboxes() {
		a.log.Warn("dropping hitboxes for legacy output",
			zap.Int("spheres", len(u.Spheres)),
			zap.Int("boxes", len(u.Boxes)))
	}

	from := u.Format
	u.SetFormat(target)
	if overrideVersion {
		u.Version = a.cfg.Export.Version
	}

	if err := formats.WriteUCMFile(dst, u); err != nil {
		return err
	}

	a.log.Info("converted UCM",
		zap.String("path", dst),
		zap.Stringer("from", from),
		zap.Stringer("to", target),
		zap.Uint32("version", u.Version))
	return nil
}
