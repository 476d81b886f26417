package gather

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type document struct {
	Line           string      `json:"line"`
	SampleInterval float64     `json:"sample_interval"`
	TraceSpacing   float64     `json:"trace_spacing"`
	Data           [][]float64 `json:"data"`
	History        []Record    `json:"history,omitempty"`
}

// Load decodes a gather document
func Load(r io.Reader) (*Gather, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode gather: %w", err)
	}
	g, err := New(doc.Data, Metadata{
		Line:           doc.Line,
		SampleInterval: doc.SampleInterval,
		TraceSpacing:   doc.TraceSpacing,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid gather %q: %w", doc.Line, err)
	}
	g.History = doc.History
	return g, nil
}

// Save encodes g as a gather document
func Save(w io.Writer, g *Gather) error {
	doc := document{
		Line:           g.Meta.Line,
		SampleInterval: g.Meta.SampleInterval,
		TraceSpacing:   g.Meta.TraceSpacing,
		Data:           g.Data,
		History:        g.History,
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode gather %q: %w", g.Meta.Line, err)
	}
	return nil
}

// LoadFile reads a gather document from path
func LoadFile(path string) (*Gather, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gather file %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// SaveFile writes g to path, truncating any existing file
func SaveFile(path string, g *Gather) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create gather file %s: %w", path, err)
	}
	if err := Save(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
