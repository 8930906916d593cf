package config

// AudioConfig controls the capture and analysis pipeline.
type AudioConfig struct {
	// Enabled gates whether the pipeline publishes real analysis data.
	Enabled bool `yaml:"enabled" env:"STROBE_AUDIO_ENABLED"`
	// Gain is the multiplier applied to every spectrum band.
	Gain float64 `yaml:"gain" env:"STROBE_AUDIO_GAIN"`
	// Smoothing is the exponential smoothing factor in [0, 1). 0 means no
	// smoothing: each publish reflects the raw spectrum.
	Smoothing float64 `yaml:"smoothing" env:"STROBE_AUDIO_SMOOTHING"`
	// Synthetic forces the deterministic test-signal backend even when a
	// capture device is available.
	Synthetic bool `yaml:"synthetic" env:"STROBE_AUDIO_SYNTHETIC"`
}

// ControlConfig controls the live-coding websocket server.
type ControlConfig struct {
	Enabled bool `yaml:"enabled" env:"STROBE_CONTROL_ENABLED"`
	// Port the server binds on 0.0.0.0.
	Port int `yaml:"port" env:"STROBE_CONTROL_PORT"`
}

// RenderConfig controls the render loop.
type RenderConfig struct {
	// FPS is the target frame rate.
	FPS int `yaml:"fps" env:"STROBE_RENDER_FPS"`
	// Scene is the name of the startup scene.
	Scene string `yaml:"scene" env:"STROBE_RENDER_SCENE"`
}

// TempoConfig controls the beat clock.
type TempoConfig struct {
	BPM     float64 `yaml:"bpm" env:"STROBE_TEMPO_BPM"`
	Quantum float64 `yaml:"quantum" env:"STROBE_TEMPO_QUANTUM"`
}

// Config represents the .strobe/config.yaml file.
type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	Control ControlConfig `yaml:"control"`
	Render  RenderConfig  `yaml:"render"`
	Tempo   TempoConfig   `yaml:"tempo"`
}
