package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/provsim/internal/ir"
)

// Scenario describes a recorded exploration session and the comparisons
// expected to hold over it.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Categories is an inline category registry. When both Categories and
	// Registry are empty the built-in registry is used.
	Categories []ir.Category `yaml:"categories,omitempty"`

	// Registry is a CUE registry file, relative to the scenario file.
	Registry string `yaml:"registry,omitempty"`

	// States lists the session's states in creation order.
	States []StateSpec `yaml:"states"`

	// Actions records transitions between states, in order.
	Actions []ActionSpec `yaml:"actions"`

	// Comparisons match pairs of states and check the results.
	Comparisons []Comparison `yaml:"comparisons,omitempty"`

	// Paths check the provenance path of a state.
	Paths []PathExpect `yaml:"paths,omitempty"`
}

// StateSpec declares a state and the token tree of its application object.
type StateSpec struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tree        *TokenSpec `yaml:"tree,omitempty"`
}

// TokenSpec is the YAML form of a token. A token with children, or with
// group set, is interior. Leaves name their category by id; importance
// defaults to 1.
type TokenSpec struct {
	Name       string      `yaml:"name"`
	Group      bool        `yaml:"group,omitempty"`
	Category   string      `yaml:"category,omitempty"`
	Importance *float64    `yaml:"importance,omitempty"`
	Value      string      `yaml:"value,omitempty"`
	Children   []TokenSpec `yaml:"children,omitempty"`
}

// ActionSpec records an action. From is empty for the action that
// created a root state.
type ActionSpec struct {
	Name    string `yaml:"name"`
	From    string `yaml:"from,omitempty"`
	To      string `yaml:"to"`
	Inverse bool   `yaml:"inverse,omitempty"`
}

// Comparison matches the trees of two states.
type Comparison struct {
	Left   string       `yaml:"left"`
	Right  string       `yaml:"right"`
	Expect *CompareSpec `yaml:"expect,omitempty"`
}

// CompareSpec holds the expected results of a comparison. Unset fields
// are not checked. Floats are compared within Tolerance.
type CompareSpec struct {
	Similarity  *float64              `yaml:"similarity,omitempty"`
	PerCategory map[string]float64    `yaml:"per_category,omitempty"`
	Lineup      map[string][3]float64 `yaml:"lineup,omitempty"`
	Distance    *int                  `yaml:"distance,omitempty"`
	Paired      *int                  `yaml:"paired,omitempty"`
	LeftOnly    *int                  `yaml:"left_only,omitempty"`
	RightOnly   *int                  `yaml:"right_only,omitempty"`
	Tolerance   float64               `yaml:"tolerance,omitempty"`
}

// PathExpect checks the provenance path ending at State.
type PathExpect struct {
	State  string   `yaml:"state"`
	Expect []string `yaml:"expect"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Registry path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Registry != "" && !filepath.IsAbs(scenario.Registry) {
		scenario.Registry = filepath.Join(filepath.Dir(path), scenario.Registry)
	}
	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and that
// every reference resolves to a declared state.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.States) == 0 {
		return fmt.Errorf("states list is required and must be non-empty")
	}
	if len(s.Categories) > 0 && s.Registry != "" {
		return fmt.Errorf("categories and registry are mutually exclusive")
	}

	states := make(map[string]bool, len(s.States))
	for i, st := range s.States {
		if st.Name == "" {
			return fmt.Errorf("states[%d]: name is required", i)
		}
		if states[st.Name] {
			return fmt.Errorf("states[%d]: duplicate state %q", i, st.Name)
		}
		states[st.Name] = true
	}

	known := func(field, name string) error {
		if !states[name] {
			return fmt.Errorf("%s: unknown state %q", field, name)
		}
		return nil
	}

	for i, a := range s.Actions {
		if a.Name == "" {
			return fmt.Errorf("actions[%d]: name is required", i)
		}
		if err := known(fmt.Sprintf("actions[%d].to", i), a.To); err != nil {
			return err
		}
		if a.From != "" {
			if err := known(fmt.Sprintf("actions[%d].from", i), a.From); err != nil {
				return err
			}
		}
	}

	for i, c := range s.Comparisons {
		if err := known(fmt.Sprintf("comparisons[%d].left", i), c.Left); err != nil {
			return err
		}
		if err := known(fmt.Sprintf("comparisons[%d].right", i), c.Right); err != nil {
			return err
		}
		if c.Expect != nil && c.Expect.Tolerance < 0 {
			return fmt.Errorf("comparisons[%d].expect: tolerance must be non-negative", i)
		}
	}

	for i, p := range s.Paths {
		if err := known(fmt.Sprintf("paths[%d].state", i), p.State); err != nil {
			return err
		}
	}
	return nil
}

// buildToken converts a TokenSpec into a token, resolving category ids
// against reg.
func buildToken(spec *TokenSpec, reg *ir.Registry) (*ir.Token, error) {
	if spec == nil {
		return nil, nil
	}
	if spec.Group || len(spec.Children) > 0 {
		if spec.Category != "" || spec.Importance != nil || spec.Value != "" {
			return nil, fmt.Errorf("token %q: %w", spec.Name, ir.ErrInteriorAttributes)
		}
		children := make([]*ir.Token, len(spec.Children))
		for i := range spec.Children {
			c, err := buildToken(&spec.Children[i], reg)
			if err != nil {
				return nil, fmt.Errorf("%s/%w", spec.Name, err)
			}
			children[i] = c
		}
		return ir.Group(spec.Name, children...), nil
	}

	cat, ok := reg.Index(spec.Category)
	if !ok {
		return nil, fmt.Errorf("token %q: unknown category %q", spec.Name, spec.Category)
	}
	importance := 1.0
	if spec.Importance != nil {
		importance = *spec.Importance
	}
	return ir.Leaf(spec.Name, cat, importance, spec.Value), nil
}
