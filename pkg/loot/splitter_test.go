package loot_test

import (
	"testing"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/stretchr/testify/assert"
)

func split(item domain.Item, maxSize int) []domain.Item {
	var out []domain.Item
	loot.SplitStack(item, maxSize, func(it domain.Item) { out = append(out, it) })
	return out
}

func TestSplitStack(t *testing.T) {
	tests := []struct {
		name  string
		count int
		max   int
		want  []int
	}{
		{"under", 10, 64, []int{10}},
		{"exact", 64, 64, []int{64}},
		{"over", 150, 64, []int{64, 64, 22}},
		{"multiple", 48, 16, []int{16, 16, 16}},
		{"empty", 0, 64, nil},
		{"default max", 70, 0, []int{64, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, it := range split(domain.NewItem("stone", tt.count), tt.max) {
				got = append(got, it.Count)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitStack_Idempotent(t *testing.T) {
	for _, count := range []int{1, 15, 16, 17, 99, 1000} {
		once := split(domain.NewItem("stone", count), 16)

		var twice []domain.Item
		total := 0
		for _, chunk := range once {
			assert.LessOrEqual(t, chunk.Count, 16)
			total += chunk.Count
			twice = append(twice, split(chunk, 16)...)
		}
		assert.Equal(t, once, twice)
		assert.Equal(t, count, total)
	}
}

func TestStackSplitter_UsesItemMax(t *testing.T) {
	var got []int
	out := loot.StackSplitter(func(it domain.Item) { got = append(got, it.Count) })
	out(domain.Item{Name: "pearl", Count: 40, MaxStack: 16})
	assert.Equal(t, []int{16, 16, 8}, got)
}
