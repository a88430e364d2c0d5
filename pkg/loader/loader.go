// Package loader reads package index files and feeds them into a
// dependency graph.
//
// An index lists packages with their direct dependencies:
//
//	{"packages": [{"name": "A", "dependencies": ["B", "C"]}]}
//
// YAML files use the same shape.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-logr/logr"
	"github.com/sourcegraph/conc/pool"
	"gopkg.in/yaml.v3"
)

// Format identifies an index file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultMaxWorkers bounds how many files LoadFiles parses at once
const DefaultMaxWorkers = 4

// Entry is one declared package and its direct dependencies.
// Version and Description are informational only.
type Entry struct {
	Name         string   `json:"name" yaml:"name"`
	Version      string   `json:"version,omitempty" yaml:"version,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
}

// Index is the top level document of an index file
type Index struct {
	Packages []Entry `json:"packages" yaml:"packages"`
}

// Source is a parsed index file
type Source struct {
	Path    string
	Digest  string
	Entries []Entry
}

// Builder is the write side of a dependency graph
type Builder interface {
	AddVertex(name string)
	AddEdge(from, to string)
}

// FormatFor picks the format from the file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported index format %q", filepath.Ext(path))
}

// Parse decodes an index document
func Parse(r io.Reader, format Format) ([]Entry, error) {
	var idx Index
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&idx); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&idx); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported index format %q", format)
	}
	return idx.Packages, nil
}

// Digest fingerprints entries independent of the file encoding
func Digest(entries []Entry) string {
	data, err := json.Marshal(entries)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", xxhash.Sum64(data))
}

// LoadFile reads and parses a single index file
func LoadFile(path string) (*Source, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Source{Path: path, Digest: Digest(entries), Entries: entries}, nil
}

// LoadFiles parses paths concurrently. The returned sources keep the
// order of paths. The first failure cancels the remaining work.
func LoadFiles(ctx context.Context, paths []string, maxWorkers int) ([]*Source, error) {
	log := logr.FromContextOrDiscard(ctx)
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	sources := make([]*Source, len(paths))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(maxWorkers).WithCancelOnError()
	for i, path := range paths {
		i, path := i, path
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := LoadFile(path)
			if err != nil {
				return err
			}
			log.V(1).Info("Loaded index file", "path", path, "packages", len(src.Entries))
			sources[i] = src
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// Apply declares every entry on b: the package first, then one edge per
// dependency. Entries are applied in order.
func Apply(b Builder, entries []Entry) {
	for _, e := range entries {
		b.AddVertex(e.Name)
		for _, dep := range e.Dependencies {
			b.AddEdge(e.Name, dep)
		}
	}
}
