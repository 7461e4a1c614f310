package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ucmtool/internal/config"
	"github.com/Faultbox/ucmtool/pkg/formats"
	"github.com/Faultbox/ucmtool/pkg/mesh"
)

// workspace isolates a test from any config file on the machine and
// returns its working directory.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func quad(offset mgl32.Vec3) []mesh.Vertex {
	vertex := func(x, y float32) mesh.Vertex {
		return mesh.Vertex{
			Position: offset.Add(mgl32.Vec3{x, y, 0}),
			Normal:   mgl32.Vec3{0, 0, 1},
			UV:       mgl32.Vec2{x, 1 - y},
		}
	}
	a, b, c, d := vertex(0, 0), vertex(1, 0), vertex(1, 1), vertex(0, 1)
	return []mesh.Vertex{a, b, c, a, c, d}
}

// writeTestModel writes a two-frame V2 model with one tag and one sphere.
func writeTestModel(t *testing.T, path string) *formats.UCM {
	t.Helper()
	u, err := formats.NewUCMFromCorners("crate", [][]mesh.Vertex{
		quad(mgl32.Vec3{}),
		quad(mgl32.Vec3{0, 0, 1}),
	})
	if err != nil {
		t.Fatalf("NewUCMFromCorners failed: %v", err)
	}
	u.AddTag("hook", mgl32.Translate3D(0.5, 0.5, 0), mgl32.Translate3D(0.5, 0.5, 1))
	u.Spheres = []formats.UCMSphere{{Center: mgl32.Vec3{0.5, 0.5, 0}, Radius: 1}}

	if err := formats.WriteUCMFile(path, u); err != nil {
		t.Fatalf("WriteUCMFile failed: %v", err)
	}
	return u
}

func TestInfo(t *testing.T) {
	dir := workspace(t)
	src := filepath.Join(dir, "crate.ucm")
	writeTestModel(t, src)

	out, err := run(t, "info", src)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}

	for _, want := range []string{
		"Name:      crate",
		"Format:    V2 (version tag 2)",
		"Frames:    2",
		"Triangles: 2",
		"Vertices:  4",
		"hook",
		"Spheres:   1",
		"Max: (1.000000, 1.000000, 0.000000)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestInfo_Errors(t *testing.T) {
	dir := workspace(t)

	if _, err := run(t, "info", filepath.Join(dir, "missing.ucm")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}

	bogus := filepath.Join(dir, "bogus.ucm")
	if err := os.WriteFile(bogus, []byte("not a model at all, just some text padding"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := run(t, "info", bogus); !errors.Is(err, formats.ErrInvalidUCMMagic) {
		t.Errorf("expected ErrInvalidUCMMagic, got %v", err)
	}

	if _, err := run(t, "info"); err == nil {
		t.Error("expected argument error")
	}
}

func TestOBJRoundTrip(t *testing.T) {
	dir := workspace(t)
	src := filepath.Join(dir, "crate.ucm")
	u := writeTestModel(t, src)

	objPath := filepath.Join(dir, "crate.obj")
	if _, err := run(t, "obj", src, objPath); err != nil {
		t.Fatalf("obj failed: %v", err)
	}

	text, err := os.ReadFile(objPath)
	if err != nil {
		t.Fatalf("failed to read OBJ: %v", err)
	}
	if !strings.HasPrefix(string(text), "o crate\n") {
		t.Errorf("expected OBJ to start with the model name, got:\n%s", text)
	}

	back := filepath.Join(dir, "back.ucm")
	if _, err := run(t, "ucm", objPath, back); err != nil {
		t.Fatalf("ucm failed: %v", err)
	}

	got, err := formats.ParseUCMFile(back)
	if err != nil {
		t.Fatalf("ParseUCMFile failed: %v", err)
	}
	if got.Name != "crate" {
		t.Errorf("expected name 'crate', got %q", got.Name)
	}
	if got.NumFrames() != 1 || len(got.Tags) != 0 || got.HasHitboxes() {
		t.Errorf("expected one frame and no tags or hitboxes, got %d frames %d tags", got.NumFrames(), len(got.Tags))
	}
	if got.NumVertices() != u.NumVertices() {
		t.Fatalf("expected %d vertices, got %d", u.NumVertices(), got.NumVertices())
	}
	for i, v := range u.Frames[0].Vertices {
		if got.Frames[0].Vertices[i] != v {
			t.Errorf("vertex %d: expected %v, got %v", i, v, got.Frames[0].Vertices[i])
		}
	}
}

func TestOBJ_FrameFlag(t *testing.T) {
	dir := workspace(t)
	src := filepath.Join(dir, "crate.ucm")
	writeTestModel(t, src)

	objPath := filepath.Join(dir, "frame1.obj")
	if _, err := run(t, "obj", "--frame", "1", src, objPath); err != nil {
		t.Fatalf("obj failed: %v", err)
	}
	text, err := os.ReadFile(objPath)
	if err != nil {
		t.Fatalf("failed to read OBJ: %v", err)
	}
	if !strings.Contains(string(text), "v 1 1 1\n") {
		t.Errorf("expected frame 1 positions, got:\n%s", text)
	}

	if _, err := run(t, "obj", "--frame", "2", src, objPath); err == nil {
		t.Error("expected error for a frame past the end")
	}
}

func TestUCM_NameAndFormat(t *testing.T) {
	dir := workspace(t)
	objPath := filepath.Join(dir, "plate.obj")
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(objPath, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write OBJ: %v", err)
	}

	tests := []struct {
		name       string
		args       []string
		wantName   string
		wantFormat formats.UCMFormat
		wantTag    uint32
	}{
		{"file name fallback", nil, "plate", formats.UCMFormatV2, 2},
		{"explicit name", []string{"Platte"}, "Platte", formats.UCMFormatV2, 2},
		{"legacy", []string{"--format", "legacy", "--version-tag", "1"}, "plate", formats.UCMFormatLegacy, 1},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(dir, "out"+string(rune('a'+i))+".ucm")
			args := append([]string{"ucm", objPath, dst}, tt.args...)
			if _, err := run(t, args...); err != nil {
				t.Fatalf("ucm failed: %v", err)
			}

			u, err := formats.ParseUCMFile(dst)
			if err != nil {
				t.Fatalf("ParseUCMFile failed: %v", err)
			}
			if u.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, u.Name)
			}
			if u.Format != tt.wantFormat {
				t.Errorf("expected format %s, got %s", tt.wantFormat, u.Format)
			}
			if u.Version != tt.wantTag {
				t.Errorf("expected version tag %d, got %d", tt.wantTag, u.Version)
			}
			if u.NumVertices() != 3 {
				t.Errorf("expected 3 vertices, got %d", u.NumVertices())
			}
		})
	}
}

func TestGLTF(t *testing.T) {
	dir := workspace(t)
	src := filepath.Join(dir, "crate.ucm")
	writeTestModel(t, src)

	glb := filepath.Join(dir, "crate.glb")
	if _, err := run(t, "gltf", src, glb); err != nil {
		t.Fatalf("gltf failed: %v", err)
	}
	data, err := os.ReadFile(glb)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("glTF")) {
		t.Error("expected binary glTF for .glb output")
	}

	jsonPath := filepath.Join(dir, "crate.gltf")
	if _, err := run(t, "gltf", src, jsonPath); err != nil {
		t.Fatalf("gltf failed: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		t.Error("expected JSON glTF for .gltf output")
	}
}

func TestConvert(t *testing.T) {
	dir := workspace(t)
	src := filepath.Join(dir, "crate.ucm")
	writeTestModel(t, src)

	legacy := filepath.Join(dir, "legacy.ucm")
	if _, err := run(t, "convert", "--format", "legacy", src, legacy); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	u, err := formats.ParseUCMFile(legacy)
	if err != nil {
		t.Fatalf("ParseUCMFile failed: %v", err)
	}
	if u.Format != formats.UCMFormatLegacy || u.HasHitboxes() {
		t.Errorf("expected legacy output without hitboxes, got %s with %d spheres", u.Format, len(u.Spheres))
	}
	if u.Version != formats.UCMDefaultVersion {
		t.Errorf("expected version tag to be kept, got %d", u.Version)
	}
	if len(u.Tags) != 1 || u.NumFrames() != 2 {
		t.Errorf("expected tags and frames to survive, got %d tags %d frames", len(u.Tags), u.NumFrames())
	}

	v2 := filepath.Join(dir, "v2.ucm")
	if _, err := run(t, "convert", "--version-tag", "9", legacy, v2); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	u, err = formats.ParseUCMFile(v2)
	if err != nil {
		t.Fatalf("ParseUCMFile failed: %v", err)
	}
	if u.Format != formats.UCMFormatV2 || u.Version != 9 {
		t.Errorf("expected V2 with version tag 9, got %s tag %d", u.Format, u.Version)
	}
}

func TestDump(t *testing.T) {
	dir := workspace(t)
	src := filepath.Join(dir, "crate.ucm")
	writeTestModel(t, src)

	out, err := run(t, "dump", src)
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	for _, want := range []string{"formats.UCM", `"crate"`, `"hook"`, "Spheres"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output missing %q", want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	dir := workspace(t)

	path := filepath.Join(dir, "conf", config.FileName)
	out, err := run(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected written path in output, got %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if err := os.WriteFile(path, []byte("obj:\n  decimals: 3\n"), 0644); err != nil {
		t.Fatalf("failed to edit config: %v", err)
	}
	out, err = run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "decimals: 3") {
		t.Errorf("expected file value in effective config, got:\n%s", out)
	}
	if !strings.Contains(out, "flip_v: true") {
		t.Errorf("expected default value in effective config, got:\n%s", out)
	}
}

func TestBadConfigFails(t *testing.T) {
	dir := workspace(t)
	src := filepath.Join(dir, "crate.ucm")
	writeTestModel(t, src)

	if _, err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "info", src); err == nil {
		t.Error("expected error for a missing config file")
	}

	if err := os.WriteFile(config.FileName, []byte("export:\n  format: zip\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := run(t, "info", src); err == nil {
		t.Error("expected error for an invalid discovered config")
	}
}
