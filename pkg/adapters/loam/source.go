package loam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/trove/pkg/domain"
	"gopkg.in/yaml.v3"
)

// AssetMetadata is the decoded body of an asset file: the whole object for
// JSON and YAML files, the frontmatter for Markdown files.
type AssetMetadata map[string]any

// Source adapts the Loam library to the Trove AssetSource interface.
// Assets live under one directory per kind, e.g. loot_tables/chests/village.json.
type Source struct {
	Repo *loam.TypedRepository[AssetMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[AssetMetadata]) *Source {
	return &Source{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository rooted at dir.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[AssetMetadata](repo)), nil
}

// ListAssets lists the assets stored under the kind's directory.
// Two files that normalize to the same name are a collision.
func (s *Source) ListAssets(ctx context.Context, kind domain.Kind) ([]string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	prefix := kind.Directory() + "/"
	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := trimExtension(doc.ID)
		name, ok := strings.CutPrefix(id, prefix)
		if !ok || name == "" {
			continue
		}
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: asset '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// ReadAsset re-encodes the asset's decoded body as YAML for the compiler.
func (s *Source) ReadAsset(ctx context.Context, id domain.Identity) ([]byte, error) {
	doc, err := s.Repo.Get(ctx, id.Kind.Directory()+"/"+id.Name)
	if err != nil {
		if names, lerr := s.ListAssets(ctx, id.Kind); lerr == nil && !slices.Contains(names, id.Name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, id)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	if len(doc.Data) == 0 {
		return nil, errors.New("asset " + id.String() + " has no data")
	}
	out, err := yaml.Marshal(map[string]any(doc.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", id, err)
	}
	return out, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable. Bursts of file events collapse into a
// single pending signal.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	// Watch for all relevant files (recursive) using doublestar pattern supported by Loam/Doublestar
	events, err := s.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default: // a reload is already pending
				}
			}
		}
	}()

	return ch, nil
}
