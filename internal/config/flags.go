package config

import "github.com/spf13/pflag"

// Flag names. Flags only override the config when set on the command line.
const (
	FlagConfig   = "config"
	FlagDebug    = "debug"
	FlagLogFile  = "log-file"
	FlagFormat   = "format"
	FlagVersion  = "version-tag"
	FlagFlipV    = "flip-v"
	FlagDecimals = "decimals"
	FlagFrame    = "frame"
	FlagBinary   = "binary"
	FlagTags     = "tags"
	FlagHitboxes = "hitboxes"
)

// RegisterGlobalFlags adds flags shared by every command.
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file")
	fs.Bool(FlagDebug, false, "Enable debug logging")
	fs.String(FlagLogFile, "", "Also write logs to this file")
}

// RegisterExportFlags adds UCM output flags.
func RegisterExportFlags(fs *pflag.FlagSet) {
	d := Default().Export
	fs.String(FlagFormat, d.Format, "UCM variant to write: v2 or legacy")
	fs.Uint32(FlagVersion, d.Version, "Version tag for new models")
}

// RegisterOBJFlags adds OBJ conversion flags.
func RegisterOBJFlags(fs *pflag.FlagSet) {
	d := Default().OBJ
	fs.Bool(FlagFlipV, d.FlipV, "Negate the V texture coordinate")
	fs.Int(FlagDecimals, d.Decimals, "Round OBJ attributes to this many decimals (0 = exact)")
	fs.Int(FlagFrame, d.Frame, "Animation frame to export")
}

// RegisterGLTFFlags adds glTF export flags.
func RegisterGLTFFlags(fs *pflag.FlagSet) {
	d := Default().GLTF
	fs.Bool(FlagBinary, d.Binary, "Write binary .glb (ignored when the output ends in .gltf or .glb)")
	fs.Bool(FlagTags, d.Tags, "Export tags as nodes")
	fs.Bool(FlagHitboxes, d.Hitboxes, "Export hitboxes as nodes")
}

// ConfigPath returns the --config value, or "" if the flag is absent.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString(FlagConfig)
	return path
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) {
	if fs == nil {
		return
	}

	if debug, _ := fs.GetBool(FlagDebug); debug {
		cfg.Logging.Level = "debug"
	}
	if fs.Changed(FlagLogFile) {
		cfg.Logging.LogFile, _ = fs.GetString(FlagLogFile)
	}

	if fs.Changed(FlagFormat) {
		cfg.Export.Format, _ = fs.GetString(FlagFormat)
	}
	if fs.Changed(FlagVersion) {
		cfg.Export.Version, _ = fs.GetUint32(FlagVersion)
	}

	if fs.Changed(FlagFlipV) {
		cfg.OBJ.FlipV, _ = fs.GetBool(FlagFlipV)
	}
	if fs.Changed(FlagDecimals) {
		cfg.OBJ.Decimals, _ = fs.GetInt(FlagDecimals)
	}
	if fs.Changed(FlagFrame) {
		cfg.OBJ.Frame, _ = fs.GetInt(FlagFrame)
	}

	if fs.Changed(FlagBinary) {
		cfg.GLTF.Binary, _ = fs.GetBool(FlagBinary)
	}
	if fs.Changed(FlagTags) {
		cfg.GLTF.Tags, _ = fs.GetBool(FlagTags)
	}
	if fs.Changed(FlagHitboxes) {
		cfg.GLTF.Hitboxes, _ = fs.GetBool(FlagHitboxes)
	}
}
