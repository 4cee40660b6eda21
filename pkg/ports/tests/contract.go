package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/ports"
)

// AssetSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.AssetSource.
// setupData holds the documents the source was seeded with, keyed by identity.
func AssetSourceContractTest(t *testing.T, source ports.AssetSource, setupData map[domain.Identity][]byte) {
	t.Helper()
	ctx := context.Background()

	// 1. Test ReadAsset (Success)
	t.Run("ReadAsset_Success", func(t *testing.T) {
		for id, expectedContent := range setupData {
			content, err := source.ReadAsset(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error reading asset %s: %v", id, err)
			}
			if string(content) != string(expectedContent) {
				t.Errorf("content mismatch for %s. got %q, want %q", id, content, expectedContent)
			}
		}
	})

	// 2. Test ReadAsset (NotFound)
	t.Run("ReadAsset_NotFound", func(t *testing.T) {
		_, err := source.ReadAsset(ctx, domain.TableID("non-existent-asset"))
		if !errors.Is(err, domain.ErrAssetNotFound) {
			t.Errorf("expected ErrAssetNotFound for non-existent asset, got %v", err)
		}
	})

	// 3. Test ListAssets per kind
	t.Run("ListAssets", func(t *testing.T) {
		for _, kind := range domain.Kinds {
			names, err := source.ListAssets(ctx, kind)
			if err != nil {
				t.Fatalf("unexpected error listing %s assets: %v", kind, err)
			}

			lookup := make(map[string]bool)
			for _, name := range names {
				lookup[name] = true
			}

			expected := 0
			for id := range setupData {
				if id.Kind != kind {
					continue
				}
				expected++
				if !lookup[id.Name] {
					t.Errorf("asset %s missing from list", id)
				}
			}
			if len(names) != expected {
				t.Errorf("expected %d %s assets, got %d (%v)", expected, kind, len(names), names)
			}
		}
	})
}
