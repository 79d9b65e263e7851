package node

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed definition.yaml
var definitionYAML []byte

// Definition is the static description of the loader node: what it is
// called, the inputs it accepts and the outputs it returns.
type Definition struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	Function    string   `yaml:"function"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Inputs      []Input  `yaml:"inputs"`
	Outputs     []Output `yaml:"outputs"`
}

// Input declares one node parameter.
type Input struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Default     any      `yaml:"default,omitempty"`
	Min         *float64 `yaml:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty"`
	Step        float64  `yaml:"step,omitempty"`
	Options     []string `yaml:"options,omitempty"`
	ImageUpload bool     `yaml:"image_upload,omitempty"`
	Tooltip     string   `yaml:"tooltip,omitempty"`
}

// Output declares one node result.
type Output struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

var (
	definitionOnce sync.Once
	definition     *Definition
	definitionErr  error
)

// Load returns the node definition, parsed once from the embedded YAML.
func Load() (*Definition, error) {
	definitionOnce.Do(func() {
		definition, definitionErr = parseDefinition(definitionYAML)
	})
	return definition, definitionErr
}

func parseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML node definition: %w", err)
	}

	if def.Name == "" || def.Function == "" || len(def.Inputs) == 0 || len(def.Outputs) == 0 {
		return nil, fmt.Errorf("invalid node definition: missing required fields")
	}

	seen := make(map[string]bool, len(def.Inputs))
	for _, in := range def.Inputs {
		if in.Name == "" || in.Type == "" {
			return nil, fmt.Errorf("invalid node definition: input without name or type")
		}
		if seen[in.Name] {
			return nil, fmt.Errorf("invalid node definition: duplicate input %q", in.Name)
		}
		seen[in.Name] = true
		if in.Type == "COMBO" && len(in.Options) == 0 {
			return nil, fmt.Errorf("invalid node definition: input %q has no options", in.Name)
		}
	}

	return &def, nil
}

// Input returns the declared input called name.
func (d *Definition) Input(name string) (Input, bool) {
	for _, in := range d.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Marshal renders the definition back to YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
