package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/ucmtool/internal/config"
	"github.com/Faultbox/ucmtool/pkg/formats"
	"github.com/Faultbox/ucmtool/pkg/wavefront"
)

func (a *app) objOptions() wavefront.Options {
	return wavefront.Options{
		Frame:    a.cfg.OBJ.Frame,
		FlipV:    a.cfg.OBJ.FlipV,
		Decimals: a.cfg.OBJ.Decimals,
	}
}

func (a *app) newOBJCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "obj <src.ucm> <dst.obj>",
		Short: "Convert one frame of a UCM model to Wavefront OBJ",
		Long: `Convert one frame of a UCM model to Wavefront OBJ. Positions, texture
coordinates and normals are written as separate deduplicated tables. Tags and
hitboxes are not exported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOBJ(args[0], args[1])
		},
	}
	config.RegisterOBJFlags(cmd.Flags())
	return cmd
}

func (a *app) runOBJ(src, dst string) error {
	u, err := formats.ParseUCMFile(src)
	if err != nil {
		return err
	}

	obj, err := wavefront.FromUCM(u, a.objOptions())
	if err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	if _, err := obj.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing OBJ file: %w", err)
	}

	a.log.Info("wrote OBJ",
		zap.String("path", dst),
		zap.Int("frame", a.cfg.OBJ.Frame),
		zap.Int("positions", len(obj.Positions)),
		zap.Int("texcoords", len(obj.TexCoords)),
		zap.Int("normals", len(obj.Normals)),
		zap.Int("faces", len(obj.Faces)))
	return nil
}

func (a *app) newUCMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ucm <src.obj> <dst.ucm> [name]",
		Short: "Convert a Wavefront OBJ mesh to a single-frame UCM model",
		Long: `Convert a Wavefront OBJ mesh to a single-frame UCM model with no tags and
no hitboxes. The model name is taken from the argument, else the OBJ "o"
record, else the source file name.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 3 {
				name = args[2]
			}
			return a.runUCM(args[0], args[1], name)
		},
	}
	config.RegisterOBJFlags(cmd.Flags())
	config.RegisterExportFlags(cmd.Flags())
	return cmd
}

func (a *app) runUCM(src, dst, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening OBJ file: %w", err)
	}
	obj, err := wavefront.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", src, err)
	}

	if name == "" && obj.Name == "" {
		base := filepath.Base(src)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	u, err := wavefront.ToUCM(obj, name, a.objOptions())
	if err != nil {
		return err
	}
	u.Version = a.cfg.Export.Version
	u.SetFormat(a.cfg.ExportFormat())

	if err := formats.WriteUCMFile(dst, u); err != nil {
		return err
	}

	a.log.Info("wrote UCM",
		zap.String("path", dst),
		zap.String("name", u.Name),
		zap.Stringer("format", u.Format),
		zap.Int("vertices", u.NumVertices()),
		zap.Int("triangles", len(u.Triangles)))
	return nil
}
