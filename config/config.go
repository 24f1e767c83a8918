package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// ConfigName is the base name of the optional launcher config file
const ConfigName = "launcher"

// Config represents the launcher configuration
type Config struct {
	Interpreter InterpreterConfig `mapstructure:"interpreter"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`

	// InstallDir is the directory holding the launcher executable
	InstallDir string `mapstructure:"-"`
}

// InterpreterConfig holds interpreter discovery configuration
type InterpreterConfig struct {
	Candidates      []string `mapstructure:"candidates"`
	VersionArgs     []string `mapstructure:"version_args"`
	ProbeTimeoutSec int      `mapstructure:"probe_timeout_sec"`
}

// ServerConfig holds the target server configuration
type ServerConfig struct {
	Script         string `mapstructure:"script"`
	ForwardSignals bool   `mapstructure:"forward_signals"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// New loads and validates the configuration from the launcher's install directory
func New() (*Config, error) {
	installDir, err := InstallDir()
	if err != nil {
		return nil, err
	}
	return Load(installDir, installDir, filepath.Join(installDir, "config"))
}

// Load reads launcher.yaml from the first matching search path, falling back to defaults
func Load(installDir string, searchPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.InstallDir = installDir

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interpreter.candidates", []string{"python3", "python"})
	v.SetDefault("interpreter.version_args", []string{"--version"})
	v.SetDefault("interpreter.probe_timeout_sec", 10)

	v.SetDefault("server.script", filepath.Join("..", "server.py"))
	v.SetDefault("server.forward_signals", true)

	// stdout belongs to the server, so the launcher stays quiet unless asked
	v.SetDefault("logging.mode", "production")
	v.SetDefault("logging.level", "error")
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	if len(c.Interpreter.Candidates) == 0 {
		return fmt.Errorf("interpreter.candidates must not be empty")
	}
	for i, name := range c.Interpreter.Candidates {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("interpreter.candidates[%d] must not be blank", i)
		}
	}

	if len(c.Interpreter.VersionArgs) == 0 {
		return fmt.Errorf("interpreter.version_args must not be empty")
	}

	if c.Interpreter.ProbeTimeoutSec < 0 {
		return fmt.Errorf("interpreter.probe_timeout_sec must not be negative, got: %d", c.Interpreter.ProbeTimeoutSec)
	}

	if strings.TrimSpace(c.Server.Script) == "" {
		return fmt.Errorf("server.script must not be empty")
	}

	if c.Logging.Mode != "production" && c.Logging.Mode != "development" {
		return fmt.Errorf("invalid logging.mode: %s, must be 'production' or 'development'", c.Logging.Mode)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	return nil
}

// GetProbeTimeout returns the interpreter probe timeout as a duration, zero meaning none
func (c *Config) GetProbeTimeout() time.Duration {
	return time.Duration(c.Interpreter.ProbeTimeoutSec) * time.Second
}

// ServerScriptPath resolves server.script against the install directory
func (c *Config) ServerScriptPath() string {
	if filepath.IsAbs(c.Server.Script) {
		return filepath.Clean(c.Server.Script)
	}
	return filepath.Join(c.InstallDir, c.Server.Script)
}

// InstallDir returns the directory of the running executable with symlinks resolved
func InstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate launcher executable: %w", err)
	}
	if resolved, evalErr := filepath.EvalSymlinks(exe); evalErr == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
