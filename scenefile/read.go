package scenefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matt-g-everett/animtx/scene"
)

// IsYAML reports whether path names a YAML scene.
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Read loads the scene at path, picking the format from its extension.
func Read(path string) (*scene.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m *scene.Model
	if IsYAML(path) {
		m, err = ReadYAML(f)
	} else {
		m, err = ReadText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
