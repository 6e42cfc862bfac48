// Package sample defines the sample records a lineage graph is drawn from,
// the state a host pushes on every update, and the project files the CLI and
// host server read.
//
// A [State] is the unit of rendering: an image asset base path plus a keyed
// collection of samples. A [Project] groups the samples of one experiment and
// optionally partitions them by experimental factor; [Project.State] selects
// the samples of one factor.
package sample

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata keys shown in click details.
const (
	MetaSecondaryName = "Q_SECONDARY_NAME"
	MetaExternalID    = "Q_EXTERNALDB_ID"
)

// Sample is one node of the lineage graph.
type Sample struct {
	ID              string            `json:"id" yaml:"id" validate:"required"`
	Name            string            `json:"name" yaml:"name"`
	ChildIDs        []string          `json:"childIDs,omitempty" yaml:"childIDs,omitempty"`
	Leaf            bool              `json:"leaf" yaml:"leaf"`
	MeasuredPercent float64           `json:"measuredPercent" yaml:"measuredPercent"`
	Amount          Quantity          `json:"amount,omitempty" yaml:"amount,omitempty"`
	Codes           []string          `json:"codes,omitempty" yaml:"codes,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Measured returns MeasuredPercent clamped to [0,100]. NaN counts as 0.
func (s Sample) Measured() float64 {
	p := s.MeasuredPercent
	if math.IsNaN(p) {
		return 0
	}
	return max(0, min(100, p))
}

// Clone returns a deep copy so bindings never alias the caller's slices.
func (s Sample) Clone() Sample {
	c := s
	c.ChildIDs = slices.Clone(s.ChildIDs)
	c.Codes = slices.Clone(s.Codes)
	if s.Metadata != nil {
		c.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// Quantity is a displayable amount. Hosts send it either as a number or as a
// string; both decode to the text that ends up in the amount label.
type Quantity string

// String returns the label text.
func (q Quantity) String() string { return string(q) }

// UnmarshalJSON accepts numbers, strings and null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*q = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*q = Quantity(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*q = Quantity(formatNumber(n.String()))
	return nil
}

// UnmarshalYAML accepts any scalar.
func (q *Quantity) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("amount: expected scalar, got kind %d", value.Kind)
	}
	switch value.ShortTag() {
	case "!!null":
		*q = ""
		return nil
	case "!!int", "!!float":
		*q = Quantity(formatNumber(value.Value))
		return nil
	}
	*q = Quantity(value.Value)
	return nil
}

// formatNumber drops a redundant ".0" so 12.0 and 12 label the same.
func formatNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
