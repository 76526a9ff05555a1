package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/octotype/dtype"
	"github.com/cube2222/octotype/extensions"
	"github.com/cube2222/octotype/temporal"
	"github.com/cube2222/octotype/typespec"
)

const (
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
)

type Config struct {
	Output     OutputConfig      `yaml:"output"`
	Cache      CacheConfig       `yaml:"cache"`
	Extensions []ExtensionConfig `yaml:"extensions"`
}

type OutputConfig struct {
	// Encoding is the text encoding of serialized types, hex or base64.
	Encoding string `yaml:"encoding"`
}

type CacheConfig struct {
	MaxEntries int64 `yaml:"maxEntries"`
}

// ExtensionConfig declares an extension type which the registry should validate.
type ExtensionConfig struct {
	ID          string        `yaml:"id"`
	Description string        `yaml:"description"`
	Storage     typespec.Spec `yaml:"storage"`
}

func Default() *Config {
	return &Config{
		Output: OutputConfig{Encoding: EncodingHex},
		Cache:  CacheConfig{MaxEntries: 1024},
	}
}

// DefaultPath returns ~/.octotype/config.yml.
func DefaultPath() (string, error) {
	dir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "couldn't get user home directory")
	}
	return filepath.Join(dir, ".octotype", "config.yml"), nil
}

// Read loads the configuration at path on top of the defaults.
// A missing file isn't an error, the defaults are returned instead.
func Read(path string) (*Config, error) {
	config := Default()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "couldn't open file")
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}

	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return config, nil
}

func (config *Config) validate() error {
	switch config.Output.Encoding {
	case EncodingHex, EncodingBase64:
	default:
		return errors.Errorf("unknown output encoding %s, expected %s or %s", config.Output.Encoding, EncodingHex, EncodingBase64)
	}
	if config.Cache.MaxEntries <= 0 {
		return errors.Errorf("cache.maxEntries must be positive, got %d", config.Cache.MaxEntries)
	}
	for i := range config.Extensions {
		if config.Extensions[i].ID == "" {
			return errors.Errorf("extension %d is missing an id", i)
		}
	}
	return nil
}

// Registry returns a registry with the temporal extensions and every extension declared in the configuration.
func (config *Config) Registry() (*extensions.Registry, error) {
	registry := extensions.NewRegistry()
	if err := temporal.Register(registry); err != nil {
		return nil, errors.Wrap(err, "couldn't register temporal extensions")
	}

	for i := range config.Extensions {
		ext := &config.Extensions[i]
		storage, err := ext.Storage.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't build storage type of extension %s", ext.ID)
		}
		if err := registry.Register(&extensions.Declared{
			ExtID:       dtype.ExtID(ext.ID),
			Storage:     storage,
			Description: ext.Description,
		}); err != nil {
			return nil, errors.Wrapf(err, "couldn't register extension %s", ext.ID)
		}
	}

	return registry, nil
}
