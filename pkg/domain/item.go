package domain

import "maps"

// DefaultMaxStackSize applies to items that do not declare their own limit.
const DefaultMaxStackSize = 64

// Item is a stack produced by a generation call.
// It is a value type: transforms return modified copies and never share Tags.
type Item struct {
	Name     string         `json:"name" yaml:"name"`
	Count    int            `json:"count" yaml:"count"`
	MaxStack int            `json:"max_stack,omitempty" yaml:"max_stack,omitempty"`
	Tags     map[string]any `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// NewItem creates a stack of count items.
func NewItem(name string, count int) Item {
	return Item{Name: name, Count: count}
}

// MaxStackSize returns the largest count a single stack may hold.
func (i Item) MaxStackSize() int {
	if i.MaxStack <= 0 {
		return DefaultMaxStackSize
	}
	return i.MaxStack
}

// IsEmpty reports whether the stack holds nothing.
func (i Item) IsEmpty() bool {
	return i.Name == "" || i.Count <= 0
}

// WithCount returns a copy of the stack holding n items.
func (i Item) WithCount(n int) Item {
	i.Count = n
	return i
}

// WithTag returns a copy of the stack with key set to value.
func (i Item) WithTag(key string, value any) Item {
	tags := make(map[string]any, len(i.Tags)+1)
	maps.Copy(tags, i.Tags)
	tags[key] = value
	i.Tags = tags
	return i
}

// Split removes up to n items from the stack.
// It returns the removed part and the remainder.
func (i Item) Split(n int) (Item, Item) {
	if n > i.Count {
		n = i.Count
	}
	if n < 0 {
		n = 0
	}
	head := i.WithCount(n)
	head.Tags = maps.Clone(i.Tags)
	return head, i.WithCount(i.Count - n)
}
