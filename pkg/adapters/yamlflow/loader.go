// Package yamlflow loads flow definitions from the two-document YAML
// format: a states document (state id → kind-specific record) and a
// transitions document (state id → event key → edge). The result is an
// immutable, validated domain.Flow ready to share across sessions.
package yamlflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// Default file names inside a flow directory.
const (
	StatesFile      = "states.yaml"
	TransitionsFile = "transitions.yaml"
)

// statesDoc mirrors states.yaml.
type statesDoc struct {
	Start  string                    `yaml:"start"`
	States map[string]map[string]any `yaml:"states"`
}

// transitionsDoc mirrors transitions.yaml. An edge is either a bare target
// string or a descriptor map, so values decode to any first.
type transitionsDoc struct {
	Transitions map[string]map[string]any `yaml:"transitions"`
}

// stateSpec is the union of kind-specific fields.
type stateSpec struct {
	Type       string   `mapstructure:"type"`
	Expression string   `mapstructure:"expression"`
	Flow       []string `mapstructure:"flow"`
	Interface  string   `mapstructure:"interface"`
	Escalation bool     `mapstructure:"requires_escalation"`
}

type edgeSpec struct {
	Target     string            `mapstructure:"target"`
	ErrorID    string            `mapstructure:"error_id"`
	SetContext map[string]string `mapstructure:"set_context"`
}

// LoadDir reads states.yaml and transitions.yaml from dir.
func LoadDir(dir string) (*domain.Flow, error) {
	statesRaw, err := os.ReadFile(filepath.Join(dir, StatesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read states document: %w", err)
	}
	transRaw, err := os.ReadFile(filepath.Join(dir, TransitionsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read transitions document: %w", err)
	}
	return Load(statesRaw, transRaw)
}

// Load parses and validates the two documents.
func Load(states, transitions []byte) (*domain.Flow, error) {
	var sd statesDoc
	if err := yaml.Unmarshal(states, &sd); err != nil {
		return nil, fmt.Errorf("failed to parse states document: %w", err)
	}
	var td transitionsDoc
	if err := yaml.Unmarshal(transitions, &td); err != nil {
		return nil, fmt.Errorf("failed to parse transitions document: %w", err)
	}

	flow := &domain.Flow{
		Entry:       sd.Start,
		States:      make(map[string]domain.State, len(sd.States)),
		Transitions: make(map[string]map[string]domain.Edge, len(td.Transitions)),
	}

	for id, raw := range sd.States {
		var spec stateSpec
		if err := decode(raw, &spec); err != nil {
			return nil, fmt.Errorf("state %q: %w", id, err)
		}
		flow.States[id] = domain.State{
			ID:         id,
			Kind:       domain.Kind(spec.Type),
			Expression: spec.Expression,
			Sequence:   spec.Flow,
			Interface:  spec.Interface,
			Escalation: spec.Escalation,
		}
	}

	for source, edges := range td.Transitions {
		out := make(map[string]domain.Edge, len(edges))
		for key, raw := range edges {
			edge, err := parseEdge(raw)
			if err != nil {
				return nil, fmt.Errorf("edge (%q, %q): %w", source, key, err)
			}
			out[key] = edge
		}
		flow.Transitions[source] = out
	}

	if err := flow.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flow definition: %w", err)
	}
	return flow, nil
}

// parseEdge accepts the two wire shapes: a bare target id, or a
// {target, error_id, set_context} descriptor.
func parseEdge(raw any) (domain.Edge, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return domain.Edge{}, fmt.Errorf("empty target")
		}
		return domain.Edge{Target: v}, nil
	case map[string]any:
		var spec edgeSpec
		if err := decode(v, &spec); err != nil {
			return domain.Edge{}, err
		}
		return domain.Edge{Target: spec.Target, ErrorTag: spec.ErrorID, SetContext: spec.SetContext}, nil
	default:
		return domain.Edge{}, fmt.Errorf("unsupported edge shape %T", raw)
	}
}

// decode runs a strict mapstructure pass so typos in flow documents fail
// at load time instead of silently dropping fields.
func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
