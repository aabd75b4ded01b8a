// SPDX-License-Identifier: MIT

// Package config loads the kruskalctl configuration.
//
// Values come, in increasing precedence, from built-in defaults, an optional
// YAML or TOML file, KRUSKALCTL_* environment variables and command-line flags.
// Keys are dotted (log.level, weight.max); the matching environment variable
// upper-cases the key and replaces dots and dashes with underscores
// (KRUSKALCTL_WEIGHT_MAX, KRUSKALCTL_CONTROLLER_CLEAR_MACS_ON_REBUILD) and the
// matching flag replaces dots with dashes (--weight-max).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/kruskalctl/prim_kruskal"
	"github.com/katalvlaran/kruskalctl/weight"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "KRUSKALCTL"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete process configuration.
type Config struct {
	Log        Log        `mapstructure:"log"`
	Web        Web        `mapstructure:"web"`
	Topology   Topology   `mapstructure:"topology"`
	Weight     Weight     `mapstructure:"weight"`
	MST        MST        `mapstructure:"mst"`
	Controller Controller `mapstructure:"controller"`
}

// Log configures the process logger.
type Log struct {
	Level     string `mapstructure:"level" validate:"oneof=debug info warn error dpanic panic fatal"`
	Format    string `mapstructure:"format" validate:"oneof=console json"`
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"max-size-mb" validate:"gte=0"`
}

// Web configures the HTTP surface. An empty Addr disables it.
type Web struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// Topology configures the discovery source.
type Topology struct {
	File          string        `mapstructure:"file"`
	Watch         bool          `mapstructure:"watch"`
	ReloadTimeout time.Duration `mapstructure:"reload-timeout" validate:"gte=0"`
}

// Weight configures the link weight source.
type Weight struct {
	Min int64 `mapstructure:"min" validate:"min=1"`
	Max int64 `mapstructure:"max" validate:"gtefield=Min"`
	// Seed 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

// MST selects the spanning tree algorithm.
type MST struct {
	Method string `mapstructure:"method" validate:"oneof=kruskal prim"`
}

// Controller tunes the lifecycle orchestrator.
type Controller struct {
	ClearMACsOnRebuild bool `mapstructure:"clear-macs-on-rebuild"`
	// Priorities are OpenFlow uint16 values; int fields let Validate reject
	// out-of-range input instead of the decoder wrapping it.
	FlowPriority int `mapstructure:"flow-priority" validate:"max=65535,gtfield=MissPriority"`
	MissPriority int `mapstructure:"miss-priority" validate:"min=0,max=65535"`
}

// defaults maps every key to its default value. Every key must appear here:
// viper only resolves environment variables for keys it knows.
var defaults = map[string]interface{}{
	"log.level":                        "info",
	"log.format":                       "console",
	"log.file":                         "",
	"log.max-size-mb":                  0,
	"web.addr":                         "",
	"topology.file":                    "",
	"topology.watch":                   true,
	"topology.reload-timeout":          2 * time.Second,
	"weight.min":                       weight.DefaultMin,
	"weight.max":                       weight.DefaultMax,
	"weight.seed":                      int64(0),
	"mst.method":                       prim_kruskal.MethodKruskal,
	"controller.clear-macs-on-rebuild": true,
	"controller.flow-priority":         1,
	"controller.miss-priority":         0,
}

var usage = map[string]string{
	"log.level":                        "log level (debug, info, warn, error)",
	"log.format":                       "log format on stdout (console, json)",
	"log.file":                         "also write JSON logs to this rotated file",
	"log.max-size-mb":                  "rotate the log file after this many megabytes (0: default)",
	"web.addr":                         "listen address of the HTTP API, empty to disable",
	"topology.file":                    "YAML topology file",
	"topology.watch":                   "rebuild when the topology file changes",
	"topology.reload-timeout":          "how long a changed topology file is retried while it does not parse",
	"weight.min":                       "smallest link weight",
	"weight.max":                       "largest link weight",
	"weight.seed":                      "link weight seed (0: seeded from the clock)",
	"mst.method":                       "spanning tree algorithm (kruskal, prim)",
	"controller.clear-macs-on-rebuild": "forget learned MAC addresses on every topology rebuild",
	"controller.flow-priority":         "priority of learned forwarding flows",
	"controller.miss-priority":         "priority of the table-miss flow",
}

// FlagName returns the command-line flag for key.
func FlagName(key string) string { return strings.ReplaceAll(key, ".", "-") }

// Flags returns a flag set with one flag per configuration key.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	for _, key := range Keys() {
		name, help := FlagName(key), usage[key]
		switch v := defaults[key].(type) {
		case string:
			fs.String(name, v, help)
		case bool:
			fs.Bool(name, v, help)
		case int:
			fs.Int(name, v, help)
		case int64:
			fs.Int64(name, v, help)
		case time.Duration:
			fs.Duration(name, v, help)
		default:
			panic(fmt.Sprintf("config: key %q has unsupported default %T", key, v))
		}
	}

	return fs
}

// NewViper returns a viper instance with the defaults, the environment binding
// and, when fs is not nil, the flags of fs bound to their keys.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for _, key := range Keys() {
			if f := fs.Lookup(FlagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	return v, nil
}

// Load reads file (when not empty) into v and returns the validated Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	return Decode(v)
}

// Decode unmarshals and validates the current values of v.
func Decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

var validate = validator.New()

// Validate checks value ranges and the weight.min <= weight.max and
// miss-priority < flow-priority relations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Default returns the configuration with every key at its default.
func Default() *Config {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	c, err := Decode(v)
	if err != nil {
		panic(err)
	}
	return c
}
