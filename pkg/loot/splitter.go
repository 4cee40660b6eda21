package loot

import "github.com/aretw0/trove/pkg/domain"

// SplitStack emits item in chunks of at most maxSize. Empty stacks are dropped.
func SplitStack(item domain.Item, maxSize int, out func(domain.Item)) {
	if item.IsEmpty() {
		return
	}
	if maxSize <= 0 {
		maxSize = domain.DefaultMaxStackSize
	}
	for item.Count > maxSize {
		var chunk domain.Item
		chunk, item = item.Split(maxSize)
		out(chunk)
	}
	out(item)
}

// StackSplitter wraps out so every item respects its own max stack size.
func StackSplitter(out func(domain.Item)) func(domain.Item) {
	return func(item domain.Item) {
		SplitStack(item, item.MaxStackSize(), out)
	}
}
