package sample

import (
	"bytes"
	"cmp"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
)

// State is what a host pushes on every change: the icon base path and the
// samples to draw, keyed by id.
type State struct {
	ImagePath string            `json:"imagePath" yaml:"imagePath"`
	Project   map[string]Sample `json:"project" yaml:"project" validate:"dive"`
}

// Samples returns the samples ordered by map key so every render of the same
// state walks them identically.
func (s State) Samples() []Sample {
	keys := make([]string, 0, len(s.Project))
	for k := range s.Project {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Sample, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.Project[k])
	}
	return out
}

// Project is the on-disk form: all samples of an experiment plus optional
// experimental factors, each naming the sample ids shown when it is selected.
type Project struct {
	Name      string              `json:"name,omitempty" yaml:"name,omitempty"`
	ImagePath string              `json:"imagePath,omitempty" yaml:"imagePath,omitempty"`
	Samples   []Sample            `json:"samples" yaml:"samples" validate:"dive"`
	Factors   map[string][]string `json:"factors,omitempty" yaml:"factors,omitempty"`
}

// FactorNames returns the factor names in sorted order.
func (p *Project) FactorNames() []string {
	names := make([]string, 0, len(p.Factors))
	for name := range p.Factors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// State builds the render state for factor. An empty factor selects every
// sample. Factor members without a sample record are skipped.
func (p *Project) State(factor string) (State, error) {
	st := State{ImagePath: p.ImagePath, Project: make(map[string]Sample)}
	if factor == "" {
		for _, s := range p.Samples {
			st.Project[s.ID] = s
		}
		return st, nil
	}

	ids, ok := p.Factors[factor]
	if !ok {
		return State{}, errors.New(errors.ErrCodeFactorNotFound, "no factor named %q (have %s)",
			factor, strings.Join(p.FactorNames(), ", "))
	}
	byID := make(map[string]Sample, len(p.Samples))
	for _, s := range p.Samples {
		byID[s.ID] = s
	}
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			st.Project[id] = s
		}
	}
	return st, nil
}

// Load reads a project file. The format is chosen by extension (.json, .yaml,
// .yml). A file holding a bare state document ({"imagePath", "project"}) is
// accepted too and converted into a single-factor project.
func Load(path string) (*Project, error) {
	if err := errors.ValidateProjectPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "project file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	format := "json"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		format = "yaml"
	}
	return Decode(bytes.NewReader(data), format)
}

// Decode parses a project document in format ("json" or "yaml") and validates it.
func Decode(r io.Reader, format string) (*Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read project")
	}

	var doc struct {
		Project `yaml:",inline"`
		State   map[string]Sample `json:"project" yaml:"project"`
	}
	switch format {
	case "json":
		err = json.Unmarshal(data, &doc)
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown project format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "decode %s project", format)
	}

	p := doc.Project
	if len(p.Samples) == 0 && len(doc.State) > 0 {
		p.Samples = State{Project: doc.State}.Samples()
		for k, s := range doc.State {
			if s.ID == "" {
				return nil, errors.New(errors.ErrCodeInvalidProject, "sample under key %q has no id", k)
			}
		}
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeState parses a JSON state push from a host.
func DecodeState(r io.Reader) (State, error) {
	var st State
	dec := json.NewDecoder(r)
	if err := dec.Decode(&st); err != nil {
		return State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode state")
	}
	if err := ValidateState(st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Issue is a tolerated anomaly in a sample collection. Issues never stop a
// render; callers log them.
type Issue struct {
	Kind     string // "duplicate-id" or "dangling-child"
	SampleID string
	Ref      string
}

// Check reports duplicate ids and child references that name no sample.
func Check(samples []Sample) []Issue {
	seen := make(map[string]bool, len(samples))
	var issues []Issue
	for _, s := range samples {
		if seen[s.ID] {
			issues = append(issues, Issue{Kind: "duplicate-id", SampleID: s.ID})
		}
		seen[s.ID] = true
	}
	for _, s := range samples {
		for _, c := range s.ChildIDs {
			if !seen[c] {
				issues = append(issues, Issue{Kind: "dangling-child", SampleID: s.ID, Ref: c})
			}
		}
	}
	slices.SortStableFunc(issues, func(a, b Issue) int { return cmp.Compare(a.Kind, b.Kind) })
	return issues
}
