// Package config loads nrfcredstore settings from the environment.
//
// Every setting has a matching persistent flag; flags that were set
// explicitly win over the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. NRFCREDSTORE_PORT.
const Prefix = "NRFCREDSTORE"

// Config holds connection and output settings.
type Config struct {
	Port            string        `yaml:"port" json:"port" envconfig:"PORT"`
	SerialNumber    string        `yaml:"serialNumber" json:"serialNumber" envconfig:"SERIAL_NUMBER"`
	Baudrate        int           `yaml:"baudrate" json:"baudrate" envconfig:"BAUDRATE" default:"115200"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" envconfig:"TIMEOUT" default:"1s"`
	ResponseTimeout time.Duration `yaml:"responseTimeout" json:"responseTimeout" envconfig:"RESPONSE_TIMEOUT" default:"15s"`
	CmdType         string        `yaml:"cmdType" json:"cmdType" envconfig:"CMD_TYPE" default:"auto"`
	ListAll         bool          `yaml:"listAll" json:"listAll" envconfig:"LIST_ALL" default:"false"`
	Probe           bool          `yaml:"probe" json:"probe" envconfig:"PROBE" default:"false"`
	NonInteractive  bool          `yaml:"nonInteractive" json:"nonInteractive" envconfig:"NON_INTERACTIVE" default:"false"`
	Debug           bool          `yaml:"debug" json:"debug" envconfig:"DEBUG" default:"false"`
	Output          string        `yaml:"output" json:"output" envconfig:"OUTPUT" default:"table"`
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Baudrate <= 0 {
		return fmt.Errorf("invalid baudrate %d", c.Baudrate)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %v", c.Timeout)
	}
	if c.ResponseTimeout <= 0 {
		return fmt.Errorf("invalid response timeout %v", c.ResponseTimeout)
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q (want table, json or yaml)", c.Output)
	}
	return nil
}
