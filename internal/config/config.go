package config

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Reads resolved configuration values by key.
//
// Implemented by [Config] and by views that rewrite keys before delegating
// to a chain. Deferred values receive the Getter the read started from.
type Getter interface {
	Get(key string) (any, error)
}

// Computes a value at read time.
//
// The function receives the Getter on which the read was originally
// invoked. Results are never memoized.
type Deferred func(g Getter) (any, error)

// Flat sub-mapping returned for a key that names a namespace.
//
// Keys are relative to the queried namespace and may themselves be dotted
// (e.g. "performance.platform" below "language.c.warnings.enable").
type Map map[string]any

// Controls a single lookup.
type Options struct {
	Level string // Restricts the lookup to the frame with this level name.
	Raw   bool   // Returns deferred values without evaluating them.
	Top   Getter // Getter deferred values are resolved against. Defaults to the receiver.
}

// One frame of a configuration chain.
//
// A frame is owned by whoever created it. The parent link is read-only from
// the child's point of view except through [Config.SetAt].
type Config struct {
	level  string         // Level name, unique within the chain.
	values map[string]any // Flattened values defined by this frame.
	parent *Config        // Next frame towards the root, or nil.
}

// Creates a new frame on top of parent.
//
// The values are flattened into dotted keys. Fails with [ErrLevelCollision]
// if any ancestor already carries the same level name.
func New(level string, values map[string]any, parent *Config) (*Config, error) {
	for p := parent; p != nil; p = p.parent {
		if p.level == level {
			return nil, fmt.Errorf("%w: %q", ErrLevelCollision, level)
		}
	}
	return &Config{
		level:  level,
		values: Flatten(values),
		parent: parent,
	}, nil
}

// Returns the level name of this frame.
func (c *Config) Level() string {
	return c.level
}

// Returns the parent frame, or nil for the root.
func (c *Config) Parent() *Config {
	return c.parent
}

// Returns the frame with the given level name, searching from the receiver
// towards the root.
func (c *Config) Frame(level string) (*Config, error) {
	for f := c; f != nil; f = f.parent {
		if f.level == level {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrLevelNotFound, level)
}

// Returns the resolved value for key, searching the whole chain.
func (c *Config) Get(key string) (any, error) {
	return c.Lookup(key, Options{})
}

// Returns the resolved value for key as defined by the frame named level.
//
// Only that frame is searched. Deferred values are still resolved against
// the receiver.
func (c *Config) GetAt(key, level string) (any, error) {
	return c.Lookup(key, Options{Level: level})
}

// Looks up key according to opts.
//
// Without a level the chain is walked from the receiver to the root. A key
// that is absent but used as a namespace yields a [Map] of everything below
// it, with nearer frames shadowing farther ones. Fails with [ErrKeyNotFound]
// when neither exists, or [ErrLevelNotFound] when opts.Level names no frame.
func (c *Config) Lookup(key string, opts Options) (any, error) {
	start := c
	if opts.Level != "" {
		f, err := c.Frame(opts.Level)
		if err != nil {
			return nil, err
		}
		start = f
	}

	v, err := start.find(key, opts.Level != "")
	if err != nil {
		return nil, err
	}
	if opts.Raw {
		return v, nil
	}

	top := opts.Top
	if top == nil {
		top = c
	}
	return resolve(v, top)
}

// Reports whether key exists as a value or a namespace anywhere in the chain.
//
// Deferred values are not evaluated.
func (c *Config) Has(key string) bool {
	_, err := c.find(key, false)
	return err == nil
}

// Sets key in the receiver frame.
//
// Any keys nested under key in this frame are removed first, so assigning a
// mapping replaces the subtree rather than merging into it. Ancestors are
// never modified.
func (c *Config) Set(key string, value any) {
	prefix := key + "."
	for k := range c.values {
		if k == key || strings.HasPrefix(k, prefix) {
			delete(c.values, k)
		}
	}
	maps.Copy(c.values, Flatten(map[string]any{key: value}))
}

// Sets key in the frame named level.
//
// An empty level targets the receiver. Fails with [ErrLevelNotFound] if no
// frame in the chain carries the name.
func (c *Config) SetAt(key string, value any, level string) error {
	if level != "" && level != c.level {
		if c.parent == nil {
			return fmt.Errorf("%w: %q", ErrLevelNotFound, level)
		}
		return c.parent.SetAt(key, value, level)
	}
	c.Set(key, value)
	return nil
}

// Yields every key in the chain with its raw value.
//
// Keys are de-duplicated: a key defined by several frames is yielded once,
// with the value of the frame nearest the receiver. Frames are visited from
// the receiver to the root, keys within a frame in sorted order.
func (c *Config) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		seen := make(map[string]struct{})
		for f := c; f != nil; f = f.parent {
			for _, k := range slices.Sorted(maps.Keys(f.values)) {
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				if !yield(k, f.values[k]) {
					return
				}
			}
		}
	}
}

// Returns the de-duplicated keys of the chain in iteration order.
func (c *Config) Keys() []string {
	var keys []string
	for k := range c.All() {
		keys = append(keys, k)
	}
	return keys
}

// Returns the number of distinct keys in the chain.
func (c *Config) Len() int {
	n := 0
	for range c.All() {
		n++
	}
	return n
}

// Returns every key of the chain with its resolved value.
//
// Deferred values are evaluated against top, or the receiver if top is nil.
func (c *Config) Items(top Getter) (map[string]any, error) {
	if top == nil {
		top = c
	}
	items := make(map[string]any)
	for k, v := range c.All() {
		r, err := resolve(v, top)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		items[k] = r
	}
	return items, nil
}

// Finds the raw value for key starting at the receiver.
//
// If single is set only the receiver is searched. An exact key in a nearer
// frame wins over anything farther. Namespace entries collected from nearer
// frames shadow an exact key found in a farther frame.
func (c *Config) find(key string, single bool) (any, error) {
	prefix := key + "."
	var sub Map

	for f := c; f != nil; f = f.parent {
		if v, ok := f.values[key]; ok {
			if sub == nil {
				return v, nil
			}
			break
		}
		for k, v := range f.values {
			rest, ok := strings.CutPrefix(k, prefix)
			if !ok {
				continue
			}
			if sub == nil {
				sub = make(Map)
			}
			if _, seen := sub[rest]; !seen {
				sub[rest] = v
			}
		}
		if single {
			break
		}
	}

	if sub != nil {
		return sub, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}

// Evaluates deferred values, including those inside an aggregated [Map].
func resolve(v any, top Getter) (any, error) {
	switch v := v.(type) {
	case Deferred:
		return v(top)
	case Map:
		out := make(Map, len(v))
		for k, e := range v {
			r, err := resolve(e, top)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	}
	return v, nil
}
