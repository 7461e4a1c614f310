package main

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"

	"github.com/Faultbox/ucmtool/pkg/formats"
)

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.ucm>",
		Short: "Show model header, counts, tags and hitboxes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := formats.ParseUCMFile(args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), args[0], u)
			return nil
		},
	}
}

func printInfo(w io.Writer, path string, u *formats.UCM) {
	fmt.Fprintln(w, "UCM Model Information")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Name:      %s\n", u.Name)
	fmt.Fprintf(w, "File:      %s\n", path)
	fmt.Fprintf(w, "Format:    %s (version tag %d)\n\n", u.Format, u.Version)

	fmt.Fprintf(w, "Frames:    %d\n", u.NumFrames())
	fmt.Fprintf(w, "Triangles: %d\n", len(u.Triangles))
	fmt.Fprintf(w, "Vertices:  %d\n", u.NumVertices())

	fmt.Fprintf(w, "Tags:      %d\n", len(u.Tags))
	for _, tag := range u.Tags {
		fmt.Fprintf(w, "  %-16s at %s\n", tag.Name, formatVec(tag.Transforms[0].Col(3).Vec3()))
	}

	if u.Format == formats.UCMFormatV2 {
		fmt.Fprintf(w, "Spheres:   %d\n", len(u.Spheres))
		for _, s := range u.Spheres {
			fmt.Fprintf(w, "  center %s radius %.6f\n", formatVec(s.Center), s.Radius)
		}
		fmt.Fprintf(w, "Boxes:     %d\n", len(u.Boxes))
		for _, b := range u.Boxes {
			fmt.Fprintf(w, "  center %s extents %s\n", formatVec(b.Center), formatVec(b.Extents))
		}
	}

	min, max := u.Bounds(0)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bounds (frame 0):")
	fmt.Fprintf(w, "  Min: %s\n", formatVec(min))
	fmt.Fprintf(w, "  Max: %s\n", formatVec(max))
}

func formatVec(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v[0], v[1], v[2])
}
