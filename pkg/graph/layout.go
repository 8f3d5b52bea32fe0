package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout is the JSON report of one export: where every node was placed and
// how the network was classified.
type Layout struct {
	RunID string `json:"run_id,omitempty"`

	Nodes  []Placement      `json:"nodes"`
	Edges  []Edge           `json:"edges"`
	Levels map[int][]string `json:"levels,omitempty"` // Level -> node IDs in emission order

	Terminal     []string `json:"terminal,omitempty"`
	Orphaned     []string `json:"orphaned,omitempty"`
	ShaderOutput []string `json:"shader_output,omitempty"`
	Cycle        []string `json:"cycle,omitempty"`

	MaxDepth  int `json:"max_depth"`
	Crossings int `json:"crossings"`
}

// Placement is one emitted node.
type Placement struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Level     int               `json:"level"`
	Orphaned  bool              `json:"orphaned,omitempty"`
	Inputs    map[string]string `json:"inputs,omitempty"`    // Attribute -> "<node>.<attribute>"
	Overrides map[string]string `json:"overrides,omitempty"` // Attribute -> written value
}

// Node returns the placement with the given ID.
func (l *Layout) Node(id string) (Placement, bool) {
	for _, p := range l.Nodes {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// MarshalLayout serializes a Layout to indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	for _, p := range l.Nodes {
		if p.ID == "" {
			return Layout{}, fmt.Errorf("layout node without id")
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
