package env

import (
	"os"

	"github.com/framehubio/framehub/api/types/tags"
	"gopkg.in/yaml.v3"
)

// Env is per-project defaults loaded from a fhubenv file.
type Env struct {
	// Tag is put on everything pushed from this project.
	Tag []tags.UserTag `yaml:"tag"`

	// Workspace is the default workspace id for commands taking one.
	Workspace int `yaml:"workspace"`
}

func New() *Env {
	return new(Env)
}

func (e *Env) Tags() []tags.UserTag {
	return e.Tag
}

// LoadEnv reads an Env from filepath.
//
// A missing file is not an error: defaults are just empty.
func LoadEnv(filepath string) (*Env, error) {
	env := Env{}

	content, err := os.ReadFile(filepath)
	if err != nil {
		return &env, nil
	}

	if err := yaml.Unmarshal(content, &env); err != nil {
		return nil, err
	}

	return &env, nil
}
