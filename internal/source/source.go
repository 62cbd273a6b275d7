// Package source supplies graph description snapshots to the route service.
package source

import (
	"context"
	"fmt"
	"os"

	"github.com/vanshika/dronepath/internal/domain"
)

// Source loads the current graph description. Callers treat the returned
// graph as an immutable snapshot.
type Source interface {
	Load(ctx context.Context) (domain.Graph, error)
}

// Prober is implemented by sources backed by a remote store.
type Prober interface {
	Probe(ctx context.Context) error
}

// StaticSource serves a fixed in-memory snapshot.
type StaticSource struct {
	graph domain.Graph
}

// NewStaticSource copies g so later changes by the caller are not observed.
func NewStaticSource(g domain.Graph) *StaticSource {
	return &StaticSource{graph: g.Clone()}
}

// Load returns a copy of the snapshot.
func (s *StaticSource) Load(context.Context) (domain.Graph, error) {
	return s.graph.Clone(), nil
}

// FileSource reads an adjacency document from disk on every Load.
type FileSource struct {
	path   string
	format Format
}

// NewFileSource creates a FileSource, inferring the format from the extension.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("graph file path is required")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, format: format}, nil
}

// Load decodes the file.
func (s *FileSource) Load(ctx context.Context) (domain.Graph, error) {
	if err := ctx.Err(); err != nil {
		return domain.Graph{}, err
	}
	file, err := os.Open(s.path)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	g, err := Decode(file, s.format)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return g, nil
}

// Probe checks that the file is readable.
func (s *FileSource) Probe(context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

// LoadFile is a convenience for one-shot reads of a graph file.
func LoadFile(ctx context.Context, path string) (domain.Graph, error) {
	src, err := NewFileSource(path)
	if err != nil {
		return domain.Graph{}, err
	}
	return src.Load(ctx)
}
