package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	keyPort            = "port"
	keyBasePath        = "base_path"
	keyAllowedOrigins  = "allowed_origins"
	keyMaxMessageSize  = "max_message_size"
	keyExperimentMode  = "experiment_mode"
	keyPingInterval    = "ping_interval"
	keyPingTimeout     = "ping_timeout"
	keyOutboxSize      = "outbox_size"
	keyShutdownTimeout = "shutdown_timeout"
	keyLogLevel        = "log_level"
	keyLogFormat       = "log_format"
)

type Config struct {
	Port     int
	BasePath string
	// AllowedOrigins are host patterns accepted during the websocket
	// handshake. "*" accepts any origin.
	AllowedOrigins []string
	MaxMessageSize int64
	ExperimentMode bool

	PingInterval    time.Duration
	PingTimeout     time.Duration
	OutboxSize      int
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string
}

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// AllowAnyOrigin reports whether origin checks are disabled.
func (c Config) AllowAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPort, 3000)
	v.SetDefault(keyBasePath, "/v2/ide/")
	v.SetDefault(keyAllowedOrigins, []string{"*"})
	v.SetDefault(keyMaxMessageSize, int64(100_000_000))
	v.SetDefault(keyExperimentMode, false)
	v.SetDefault(keyPingInterval, 5*time.Second)
	v.SetDefault(keyPingTimeout, 20*time.Second)
	v.SetDefault(keyOutboxSize, 256)
	v.SetDefault(keyShutdownTimeout, 10*time.Second)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "console")
}

// Flags are the command-line overrides; names mirror the config keys with
// dashes.
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flags.Int("port", 3000, "port to listen on")
	flags.String("base-path", "/v2/ide/", "path of the websocket endpoint")
	flags.StringSlice("allowed-origins", []string{"*"}, "origin patterns accepted in the websocket handshake")
	flags.Int64("max-message-size", 100_000_000, "largest accepted message in bytes")
	flags.Bool("experiment-mode", false, "allow joining pair programming rooms that do not exist yet")
	flags.Duration("ping-interval", 5*time.Second, "interval between websocket pings")
	flags.Duration("ping-timeout", 20*time.Second, "time to wait for a pong before disconnecting")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "console", "console or json")
	return flags
}

// Load resolves the configuration from, lowest precedence first: defaults,
// the optional config file, a .env file in the working directory, the
// environment and flags that were set explicitly.
func Load(v *viper.Viper, flags *pflag.FlagSet, file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	setDefaults(v)
	for _, key := range []string{
		keyPort, keyBasePath, keyAllowedOrigins, keyMaxMessageSize,
		keyExperimentMode, keyPingInterval, keyPingTimeout, keyOutboxSize,
		keyShutdownTimeout, keyLogLevel, keyLogFormat,
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			bindErr = multierr.Append(bindErr, v.BindPFlag(key, f))
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:            v.GetInt(keyPort),
		BasePath:        v.GetString(keyBasePath),
		AllowedOrigins:  splitList(v.GetStringSlice(keyAllowedOrigins)),
		MaxMessageSize:  v.GetInt64(keyMaxMessageSize),
		ExperimentMode:  v.GetBool(keyExperimentMode),
		PingInterval:    v.GetDuration(keyPingInterval),
		PingTimeout:     v.GetDuration(keyPingTimeout),
		OutboxSize:      v.GetInt(keyOutboxSize),
		ShutdownTimeout: v.GetDuration(keyShutdownTimeout),
		LogLevel:        strings.ToLower(v.GetString(keyLogLevel)),
		LogFormat:       strings.ToLower(v.GetString(keyLogFormat)),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitList accepts both repeated values and a single comma separated one,
// which is how lists arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	if c.Port < 1 || c.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("port %d out of range", c.Port))
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		err = multierr.Append(err, fmt.Errorf("base path %q must start with /", c.BasePath))
	}
	if len(c.AllowedOrigins) == 0 {
		err = multierr.Append(err, errors.New("allowed origins must not be empty"))
	}
	if c.MaxMessageSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("max message size %d must be positive", c.MaxMessageSize))
	}
	if c.PingInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("ping interval %v must be positive", c.PingInterval))
	}
	if c.PingTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("ping timeout %v must be positive", c.PingTimeout))
	}
	if c.OutboxSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("outbox size %d must be positive", c.OutboxSize))
	}
	if c.ShutdownTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("shutdown timeout %v must be positive", c.ShutdownTimeout))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
