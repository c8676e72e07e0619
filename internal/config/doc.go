// Package config implements the layered configuration used by builds.
//
// A [Config] is one frame in a singly-linked chain. Each frame carries a
// level name, a flat map of dotted keys to values, and a non-owning link to
// its parent. Lookups walk from the receiver towards the root and the first
// frame holding the key wins. Writes only ever touch a single frame: either
// the receiver or, when a level is named, the ancestor carrying that name.
//
// Nested maps are flattened on the way in, so {"directory": {"root": "/x"}}
// is stored as "directory.root". Reading a key that only exists as a prefix
// ("directory") yields a [Map] aggregating every key below it.
//
// A [Deferred] value is a function evaluated on every read against the
// frame the read started from, not the frame that defined it. Defaults can
// therefore be expressed in terms of values that deeper frames override.
//
// Example usage:
//
//	defaults, _ := config.New("default", map[string]any{
//	    "directory": map[string]any{
//	        "stamps": config.Template("${directory.root}/stamps"),
//	    },
//	}, nil)
//
//	main, err := config.New("main", map[string]any{"directory.root": "/tmp/out"}, defaults)
//	if err != nil {
//	    return err
//	}
//
//	stamps, err := config.String(main, "directory.stamps") // "/tmp/out/stamps"
package config
