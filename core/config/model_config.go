package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// ModelConfig is the optional YAML sidecar describing how the checkpoint
// should be loaded. Values from the file override flags and env defaults.
type ModelConfig struct {
	Model     string `yaml:"model"`
	Scheduler string `yaml:"scheduler"`
	AssetsDir string `yaml:"assets_dir"`
	Threads   int    `yaml:"threads"`
	F16       *bool  `yaml:"f16"`
}

func ReadModelConfigFile(file string) (*ModelConfig, error) {
	c := &ModelConfig{}
	f, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}
	if err := yaml.Unmarshal(f, c); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config file: %w", err)
	}
	return c, nil
}

// ApplyModelConfig merges the file config over the current application
// config. Only fields set in the file win.
func (o *ApplicationConfig) ApplyModelConfig(c *ModelConfig) error {
	overlay := &ApplicationConfig{
		Model:     c.Model,
		Scheduler: c.Scheduler,
		AssetsDir: c.AssetsDir,
		Threads:   c.Threads,
	}
	if err := mergo.Merge(o, overlay, mergo.WithOverride); err != nil {
		return err
	}
	if c.F16 != nil {
		o.F16 = *c.F16
	}
	return nil
}
