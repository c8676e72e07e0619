package process

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// Returns the ambient environment as a map.
func Environ() map[string]string {
	return parseEnv(os.Environ())
}

// Merges environment layers left to right. Later layers win.
func MergeEnv(layers ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, l := range layers {
		maps.Copy(merged, l)
	}
	return merged
}

// Parses "key=value" entries. Entries without "=" are skipped.
func parseEnv(entries []string) map[string]string {
	env := make(map[string]string, len(entries))
	for _, entry := range entries {
		if k, v, ok := strings.Cut(entry, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Formats the environment as sorted "key=value" strings for exec.
func environ(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}
