/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package driveconfig

import (
	"runtime"
	"strings"

	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/common/viperutil"
	"github.com/dashpay/platform-drive/core/statestore"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var logger = flogging.MustGetLogger("driveconfig")

const (
	// EnvPrefix prefixes the environment overrides, e.g. DRIVE_STORAGE_BACKEND.
	EnvPrefix = "DRIVE"
	// FileName is the config file searched for in viperutil.ConfigPaths.
	FileName = "drive"
)

const (
	MetricsProviderPrometheus = "prometheus"
	MetricsProviderDisabled   = "disabled"
)

// Config is the drive node configuration.
type Config struct {
	Logging    Logging
	Validation Validation
	Storage    Storage
	Metrics    Metrics
	Core       Core
}

type Logging struct {
	Spec   string
	Format string
	// File enables a rotating log file next to stderr.
	File      string
	MaxRollKB int64
	MaxRolls  int
}

type Validation struct {
	ProtocolVersion       uint32
	LatestProtocolVersion uint32
	// Concurrency bounds the state transitions decoded at the same time.
	Concurrency int
	DryRun      bool
}

type Storage struct {
	Backend string
	Path    string
	// CacheSize accepts byte sizes such as 32MB. Zero disables the cache.
	CacheSize uint32
}

type Metrics struct {
	Provider     string
	TextfilePath string
}

type Core struct {
	// ChainLockedHeight is used when the store holds no block header.
	ChainLockedHeight uint32
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.spec", "info")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.maxRollKB", 10240)
	v.SetDefault("logging.maxRolls", 3)
	v.SetDefault("validation.protocolVersion", version.LatestProtocolVersion)
	v.SetDefault("validation.latestProtocolVersion", version.LatestProtocolVersion)
	v.SetDefault("validation.concurrency", runtime.NumCPU())
	v.SetDefault("validation.dryRun", false)
	v.SetDefault("storage.backend", statestore.BackendMemory)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.cacheSize", "32MB")
	v.SetDefault("metrics.provider", MetricsProviderDisabled)
	v.SetDefault("metrics.textfilePath", "")
	v.SetDefault("core.chainLockedHeight", 0)
}

// Load reads the configuration. An empty path searches viperutil.ConfigPaths
// for drive.yaml and falls back to the defaults when none exists.
// Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", path)
		}
	} else {
		v.SetConfigName(FileName)
		for _, p := range viperutil.ConfigPaths() {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(err, "error reading drive config")
			}
			logger.Debugf("No %s config file found, using defaults", FileName)
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Infof("Loading configuration from %s", used)
	}

	conf := &Config{}
	if err := viperutil.EnhancedExactUnmarshal(v, conf); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config into struct")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case statestore.BackendMemory, statestore.BackendLevelDB, statestore.BackendBadger:
	default:
		return errors.Errorf("unknown storage backend '%s'", c.Storage.Backend)
	}
	if c.Storage.Backend == statestore.BackendLevelDB && c.Storage.Path == "" {
		return errors.New("storage.path is required by the leveldb backend")
	}
	switch c.Metrics.Provider {
	case MetricsProviderPrometheus, MetricsProviderDisabled:
	default:
		return errors.Errorf("unknown metrics provider '%s'", c.Metrics.Provider)
	}
	if c.Validation.Concurrency < 1 {
		return errors.Errorf("validation.concurrency must be positive, got %d", c.Validation.Concurrency)
	}
	if c.Validation.ProtocolVersion > c.Validation.LatestProtocolVersion {
		return errors.Errorf("protocol version %d is newer than the latest protocol version %d",
			c.Validation.ProtocolVersion, c.Validation.LatestProtocolVersion)
	}
	if _, err := version.Get(c.Validation.ProtocolVersion); err != nil {
		return err
	}
	return nil
}

// ProtocolVersionValidator returns the validator for submitted protocol
// versions that the configured versions imply.
func (c *Config) ProtocolVersionValidator() *version.ProtocolVersionValidator {
	pvv := version.NewProtocolVersionValidator()
	pvv.Current = c.Validation.ProtocolVersion
	pvv.Latest = c.Validation.LatestProtocolVersion
	return pvv
}
