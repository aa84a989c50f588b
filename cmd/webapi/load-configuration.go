package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"gopkg.in/yaml.v2"
)

type configuration struct {
	Config struct {
		Path string `conf:"default:conf/config.yml"`
	}
	Debug bool `conf:"default:false"`
	Web   struct {
		APIHost         string        `conf:"default:0.0.0.0:3000"`
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:120s"`
		ShutdownTimeout time.Duration `conf:"default:5s"`
	}
	DB struct {
		Filename string `conf:"default:./instaai.db"`
	}
	Generation struct {
		Endpoint string        `conf:"default:https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-xl-base-1.0"`
		Token    string        `conf:"noprint"`
		Timeout  time.Duration `conf:"default:90s"`
	}
}

// fileConfiguration mirrors the optional YAML file; pointers distinguish
// absent keys from zero values, so the file only overrides what it names.
type fileConfiguration struct {
	Debug *bool `yaml:"debug"`
	Web   *struct {
		APIHost *string `yaml:"api-host"`
	} `yaml:"web"`
	DB *struct {
		Filename *string `yaml:"filename"`
	} `yaml:"db"`
	Generation *struct {
		Endpoint *string `yaml:"endpoint"`
		Token    *string `yaml:"token"`
	} `yaml:"generation"`
}

// loadConfiguration gathers settings from, in rising order of precedence:
// defaults, environment variables, command line flags and the YAML file.
func loadConfiguration() (configuration, error) {
	var cfg configuration

	if err := conf.Parse(os.Args[1:], "INSTAAI", &cfg); err != nil {
		if err == conf.ErrHelpWanted {
			usage, usageErr := conf.Usage("INSTAAI", &cfg)
			if usageErr != nil {
				return cfg, fmt.Errorf("generating config usage: %w", usageErr)
			}
			fmt.Println(usage)
			return cfg, conf.ErrHelpWanted
		}
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// a missing configuration file isn't an error; defaults suffice
	contents, err := os.ReadFile(cfg.Config.Path)
	if err != nil {
		return cfg, nil
	}

	var fileCfg fileConfiguration
	if err = yaml.Unmarshal(contents, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", cfg.Config.Path, err)
	}

	if fileCfg.Debug != nil {
		cfg.Debug = *fileCfg.Debug
	}
	if fileCfg.Web != nil && fileCfg.Web.APIHost != nil {
		cfg.Web.APIHost = *fileCfg.Web.APIHost
	}
	if fileCfg.DB != nil && fileCfg.DB.Filename != nil {
		cfg.DB.Filename = *fileCfg.DB.Filename
	}
	if fileCfg.Generation != nil {
		if fileCfg.Generation.Endpoint != nil {
			cfg.Generation.Endpoint = *fileCfg.Generation.Endpoint
		}
		if fileCfg.Generation.Token != nil {
			cfg.Generation.Token = *fileCfg.Generation.Token
		}
	}

	return cfg, nil
}
