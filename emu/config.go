package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"caracal/emu/log"
)

type Config struct {
	Video     VideoConfig     `toml:"video"`
	Audio     AudioConfig     `toml:"audio"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
}

type VideoConfig struct {
	// Rotation override: "", "left" or "right". Empty follows the cart.
	Rotation string `toml:"rotation"`
}

type AudioConfig struct {
	DisableAudio bool `toml:"disable_audio"`
	SampleRate   int  `toml:"sample_rate"`
}

type EmulationConfig struct {
	// DetailedSerial selects the per-bit serial link backend.
	DetailedSerial bool `toml:"detailed_serial"`
	// BreakOnBrk stops emulation when the CPU executes BRK.
	BreakOnBrk bool `toml:"break_on_brk"`
}

func (acfg *AudioConfig) Check() {
	if acfg.SampleRate == 0 {
		acfg.SampleRate = 44100
	}
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("caracal")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the caracal config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		cfg = Config{}
	}
	cfg.Audio.Check()
	return cfg
}

// SaveConfig into the caracal config directory.
func SaveConfig(cfg Config) error {
	f, err := os.Create(filepath.Join(ConfigDir, cfgFilename))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
