package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagResolution = flag.Int("resolution", 0, "Shadow map resolution")
	flagSamples    = flag.Int("samples", -1, "Soft-shadow kernel sample count")
	flagSeed       = flag.Uint64("seed", 0, "Kernel random seed (0 = clock)")
	flagOut        = flag.String("out", "", "Output directory")
	flagVisible    = flag.Bool("visible", false, "Show the GL context window")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config dir")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagResolution > 0 {
		cfg.Shadow.Resolution = *flagResolution
	}
	if *flagSamples >= 0 {
		cfg.Shadow.SampleCount = *flagSamples
	}
	if *flagSeed != 0 {
		cfg.Shadow.Seed = *flagSeed
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagVisible {
		cfg.Window.Hidden = false
	}
}
