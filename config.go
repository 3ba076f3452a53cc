package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/animtx/scene"
	"github.com/matt-g-everett/animtx/stream"
	"github.com/matt-g-everett/animtx/util"
)

// Config is the YAML configuration file.
type Config struct {
	Scene    string `yaml:"scene"`
	Playback struct {
		Tempo  int    `yaml:"tempo"`
		Loop   bool   `yaml:"loop"`
		Motion string `yaml:"motion"`
		Policy string `yaml:"policy"`
		Easing string `yaml:"easing"`
	} `yaml:"playback"`
	Mqtt stream.Config `yaml:"mqtt"`
	Api  struct {
		Listen string `yaml:"listen"`
	} `yaml:"api"`
}

func defaultConfig() Config {
	var c Config
	c.Playback.Tempo = 1
	c.Playback.Motion = "resolve"
	c.Api.Listen = ":3000"
	return c
}

// readConfig loads configPath over the defaults. A missing file leaves the
// defaults in place.
func (a *app) readConfig(configPath string) error {
	a.Config = defaultConfig()

	f, err := os.Open(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&a.Config); err != nil && err != io.EOF {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	return a.Config.validate()
}

func (c Config) validate() error {
	if c.Playback.Tempo <= 0 {
		return fmt.Errorf("%w: playback.tempo must be positive, got %d", scene.ErrInvalidArgument, c.Playback.Tempo)
	}
	if _, err := c.resolver(); err != nil {
		return err
	}
	if _, err := c.stepped(); err != nil {
		return err
	}
	return nil
}

func (c Config) resolver() (scene.Resolver, error) {
	policy, err := scene.ParsePolicy(c.Playback.Policy)
	if err != nil {
		return scene.Resolver{}, err
	}
	easing, err := util.ParseEasing(c.Playback.Easing)
	if err != nil {
		return scene.Resolver{}, fmt.Errorf("%w: playback.easing: %v", scene.ErrInvalidArgument, err)
	}
	return scene.Resolver{Policy: policy, Easing: easing}, nil
}

func (c Config) stepped() (bool, error) {
	switch c.Playback.Motion {
	case "", "resolve":
		return false, nil
	case "step":
		return true, nil
	}
	return false, fmt.Errorf("%w: playback.motion must be resolve or step, got %q", scene.ErrInvalidArgument, c.Playback.Motion)
}
