package scenefile

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/animtx/scene"
)

type yamlScene struct {
	Canvas *struct {
		X      int `yaml:"x"`
		Y      int `yaml:"y"`
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"canvas"`
	Shapes []struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"shapes"`
	Motions []struct {
		Name string       `yaml:"name"`
		From yamlKeyframe `yaml:"from"`
		To   yamlKeyframe `yaml:"to"`
	} `yaml:"motions"`
	Colors []struct {
		Name string `yaml:"name"`
		R    int    `yaml:"r"`
		G    int    `yaml:"g"`
		B    int    `yaml:"b"`
		T    int    `yaml:"t"`
	} `yaml:"colors"`
}

type yamlKeyframe struct {
	T int     `yaml:"t"`
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
	R int     `yaml:"r"`
	G int     `yaml:"g"`
	B int     `yaml:"b"`
}

func (k yamlKeyframe) keyframe() scene.Keyframe {
	return scene.Keyframe{T: k.T, X: k.X, Y: k.Y, W: k.W, H: k.H, R: k.R, G: k.G, B: k.B}
}

// ReadYAML builds a scene from a YAML document with optional canvas, shapes,
// motions and colors sections. Shapes are declared before any motion is
// folded in, and color events are added last.
func ReadYAML(r io.Reader) (*scene.Model, error) {
	var doc yamlScene
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	b := scene.NewBuilder()
	if c := doc.Canvas; c != nil {
		if err := b.SetBounds(c.X, c.Y, c.Width, c.Height); err != nil {
			return nil, err
		}
	}
	for i, s := range doc.Shapes {
		if err := b.DeclareShape(s.Name, s.Type); err != nil {
			return nil, fmt.Errorf("shapes[%d]: %w", i, err)
		}
	}
	for i, m := range doc.Motions {
		if err := b.AddMotion(m.Name, m.From.keyframe(), m.To.keyframe()); err != nil {
			return nil, fmt.Errorf("motions[%d]: %w", i, err)
		}
	}
	for i, c := range doc.Colors {
		if err := b.AddColor(c.Name, scene.RGB255(c.R, c.G, c.B), c.T); err != nil {
			return nil, fmt.Errorf("colors[%d]: %w", i, err)
		}
	}
	return b.Build(), nil
}
