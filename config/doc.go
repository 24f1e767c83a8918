// Package config provides configuration management for the launcher.
//
// The config package loads launcher settings from an optional launcher.yaml
// placed next to the launcher executable, applying defaults for everything
// that is not set. It uses viper for loading and mapstructure tags for
// decoding.
//
// Usage:
//
//	cfg, err := config.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	script := cfg.ServerScriptPath()
package config
