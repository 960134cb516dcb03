package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Mode     string `mapstructure:"mode"`
	LogLevel string `mapstructure:"log_level"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	HTTPPort int    `mapstructure:"http_port"`

	RoomName     string `mapstructure:"room_name"`
	RoomCapacity int    `mapstructure:"room_capacity"`
	QueueSize    int    `mapstructure:"queue_size"`

	JoinTimeout     time.Duration `mapstructure:"join_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	JoinRateLimit    int           `mapstructure:"join_rate_limit"`
	JoinRateInterval time.Duration `mapstructure:"join_rate_interval"`
}

var ErrInvalid = errors.New("invalid config")

// Addr is the listen address of the chat protocol.
func (c *Config) Addr() string { return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) }

// HTTPAddr is the listen address of the admin API, empty when disabled.
func (c *Config) HTTPAddr() string {
	if c.HTTPPort == 0 {
		return ""
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.HTTPPort))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("host", "")
	v.SetDefault("port", 50388)
	v.SetDefault("http_port", 8080)
	v.SetDefault("room_name", "lobby")
	v.SetDefault("room_capacity", 20)
	v.SetDefault("queue_size", 20)
	v.SetDefault("join_timeout", "10s")
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("join_rate_limit", 20)
	v.SetDefault("join_rate_interval", "10s")
}

func newFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("config", "", "config file (default config/config.$CONFIG_ENV.yaml)")
	flags.String("mode", "release", "gin mode: release or debug")
	flags.String("log_level", "info", "log level")
	flags.String("host", "", "listen host")
	flags.Int("port", 50388, "chat listen port")
	flags.Int("http_port", 8080, "admin/websocket HTTP port, 0 disables")
	flags.String("room_name", "lobby", "room name")
	flags.Int("room_capacity", 20, "maximum number of members")
	flags.Int("queue_size", 20, "message queue capacity")
	flags.Duration("join_timeout", 10*time.Second, "time allowed for the join frame")
	flags.Duration("write_timeout", 5*time.Second, "per-frame write deadline")
	flags.Duration("shutdown_timeout", 5*time.Second, "HTTP shutdown bound")
	flags.Int("join_rate_limit", 20, "join attempts per host per interval, 0 disables")
	flags.Duration("join_rate_interval", 10*time.Second, "join rate window")
	return flags
}

// Load builds the configuration from defaults, an optional YAML file,
// RELAY_* environment variables and command line arguments, in increasing
// order of precedence. A bare positional argument is the listen port.
func Load(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	flags := newFlagSet("relay")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	if flags.NArg() > 1 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalid, flags.Args()[1:])
	}
	if flags.NArg() == 1 {
		port, err := strconv.Atoi(flags.Arg(0))
		if err != nil {
			return nil, fmt.Errorf("%w: port %q", ErrInvalid, flags.Arg(0))
		}
		v.Set("port", port)
	}

	v.SetEnvPrefix("RELAY")
	v.AutomaticEnv()

	fileName, _ := flags.GetString("config")
	if fileName == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		fileName = fmt.Sprintf("config/config.%s.yaml", env)
	}
	v.SetConfigFile(fileName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		log.Debug().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	case c.HTTPPort < 0 || c.HTTPPort > 65535:
		return fmt.Errorf("%w: http_port %d out of range", ErrInvalid, c.HTTPPort)
	case c.RoomCapacity <= 0:
		return fmt.Errorf("%w: room_capacity must be positive", ErrInvalid)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalid)
	case c.JoinTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 || c.JoinRateInterval < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalid)
	case c.JoinRateLimit < 0:
		return fmt.Errorf("%w: join_rate_limit must not be negative", ErrInvalid)
	}
	return nil
}
