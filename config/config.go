// Package config loads the receiver settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"amfmradio/radio"

	"gopkg.in/yaml.v2"
)

// Environment variables read by Load.
const (
	EnvConfigFile = "KT0913_CONFIG"
	EnvFrequency  = "KT0913_FREQUENCY"
	EnvCampusBand = "KT0913_CAMPUS_BAND"
)

// Config represents the complete configuration of the receiver
type Config struct {
	Radio   RadioConfig   `yaml:"radio"`
	Station StationConfig `yaml:"station"`
	I2C     I2CConfig     `yaml:"i2c"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

// RadioConfig holds the chip settings applied at initialization
type RadioConfig struct {
	AntiPop    uint8 `yaml:"antiPop"`
	RefClock   uint8 `yaml:"refClock"`
	CampusBand bool  `yaml:"campusBand"`
	Debug      bool  `yaml:"debug"`
}

// StationConfig holds what gets tuned once the receiver is up
type StationConfig struct {
	FrequencyKHz   uint32 `yaml:"frequencyKhz"`
	Volume         int    `yaml:"volume"`
	GainDB         int    `yaml:"gainDb"`
	DeemphasisUs   int    `yaml:"deemphasisUs"`
	Stereo         bool   `yaml:"stereo"`
	PollIntervalMs int    `yaml:"pollIntervalMs"`
}

// I2CConfig selects where the chip is attached
type I2CConfig struct {
	Bus     int `yaml:"bus"`
	Address int `yaml:"address"`
}

// DisplayConfig holds the LCD settings
type DisplayConfig struct {
	Enabled bool `yaml:"enabled"`
	Address int  `yaml:"address"`
}

// LogConfig holds the log output settings. Logs go to stderr when File is empty.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Load builds the configuration from the defaults, the file at path when
// given, the file named by KT0913_CONFIG and finally the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if envPath := os.Getenv(EnvConfigFile); envPath != "" {
		if err := loadFromFile(cfg, envPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", envPath, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Radio: RadioConfig{
			AntiPop:  uint8(radio.AntiPop100uF),
			RefClock: uint8(radio.RefClock32768Hz),
		},
		Station: StationConfig{
			FrequencyKHz:   98000,
			Volume:         -20,
			GainDB:         0,
			DeemphasisUs:   int(radio.Deemphasis75us),
			Stereo:         true,
			PollIntervalMs: 1000,
		},
		I2C: I2CConfig{
			Bus:     1,
			Address: radio.Address,
		},
		Display: DisplayConfig{
			Address: 0x27,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return yaml.UnmarshalStrict(data, cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvFrequency); v != "" {
		khz, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvFrequency, v, err)
		}
		cfg.Station.FrequencyKHz = uint32(khz)
	}

	if v := os.Getenv(EnvCampusBand); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvCampusBand, v, err)
		}
		cfg.Radio.CampusBand = on
	}

	return nil
}

// Validate checks the station settings against what the tuner accepts.
// The chip settings are left to radio.KT0913Config, which clamps them.
func (c *Config) Validate() error {
	if _, err := radio.BandOf(c.Station.FrequencyKHz, c.Radio.CampusBand); err != nil {
		return fmt.Errorf("station frequency: %w", err)
	}

	if c.Station.Volume < -60 || c.Station.Volume > 0 {
		return fmt.Errorf("volume %d is outside range [-60, 0]", c.Station.Volume)
	}

	switch c.Station.GainDB {
	case -3, 0, 3, 6:
	default:
		return fmt.Errorf("invalid gain %d dB, must be one of: [-3 0 3 6]", c.Station.GainDB)
	}

	switch radio.Deemphasis(c.Station.DeemphasisUs) {
	case radio.Deemphasis50us, radio.Deemphasis75us:
	default:
		return fmt.Errorf("invalid de-emphasis %d us, must be 50 or 75", c.Station.DeemphasisUs)
	}

	if c.Station.PollIntervalMs <= 0 {
		return fmt.Errorf("poll interval %d ms must be positive", c.Station.PollIntervalMs)
	}

	if c.I2C.Bus < 0 {
		return fmt.Errorf("invalid i2c bus %d", c.I2C.Bus)
	}
	if c.I2C.Address <= 0 || c.I2C.Address > 0x7F {
		return fmt.Errorf("invalid i2c address 0x%x", c.I2C.Address)
	}
	if c.Display.Enabled && (c.Display.Address <= 0 || c.Display.Address > 0x7F) {
		return fmt.Errorf("invalid display address 0x%x", c.Display.Address)
	}

	return nil
}

// PollInterval is the delay between two status reads.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Station.PollIntervalMs) * time.Millisecond
}

// KT0913Config returns the tuner configuration, logging through logf.
func (c *Config) KT0913Config(logf func(format string, v ...interface{})) radio.KT0913Config {
	cfg := radio.KT0913Config{
		AntiPop:    radio.AntiPop(c.Radio.AntiPop),
		RefClock:   radio.RefClock(c.Radio.RefClock),
		CampusBand: c.Radio.CampusBand,
		Log:        logf,
	}
	if c.Radio.Debug {
		cfg.DebugMode = true
		cfg.DebugLog = logf
	}
	return cfg
}
