package compiler

import (
	"fmt"
	"slices"

	"github.com/cruciblehq/builder/internal/config"
)

// Warning categories under "language.<lang>.warnings.enable".
var categories = []string{
	"normal",
	"extensions",
	"compatibility",
	"performance.normal",
	"performance.platform",
	"system_code",
}

// Returns the warning flags for the compiler's language read from g.
//
// Fails with [ErrUnknownConfigValue] for a category not listed in the
// package documentation.
func (c *Compiler) Flags(g config.Getter) ([]string, error) {
	prefix := "language." + c.Language + ".warnings"

	errs, err := config.Bool(g, prefix+".errors")
	if err != nil {
		return nil, err
	}
	enabled, err := enabledCategories(g, prefix+".enable")
	if err != nil {
		return nil, err
	}

	var flags []string
	if errs {
		flags = append(flags, "-Werror")
	}
	if len(enabled) == 0 {
		return append(flags, "-w"), nil
	}

	warn := func(category, flag string) {
		if enabled[category] {
			flags = append(flags, "-W"+flag)
		} else {
			flags = append(flags, "-Wno-"+flag)
		}
	}

	pedantic := enabled["extensions"]
	if pedantic {
		if errs {
			flags = append(flags, "-pedantic-errors")
		} else {
			flags = append(flags, "-pedantic")
		}
	}

	switch c.Family {
	case Clang:
		warn("normal", "everything")
		switch {
		case c.Language == "c":
			warn("compatibility", "c99-compat")
		case pedantic:
			warn("compatibility", "c++98-compat-pendantic")
		default:
			warn("compatibility", "c++98-compat")
		}
	case GCC:
		if enabled["normal"] {
			flags = append(flags, "-Wall", "-Wextra")
		}
		if c.Language == "c" {
			warn("compatibility", "c++-compat")
		} else {
			warn("compatibility", "c++11-compat")
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompiler, c.Family)
	}

	warn("performance.platform", "padded")
	warn("performance.platform", "packed")
	warn("system_code", "system-headers")

	return flags, nil
}

// Returns the set of enabled categories below key.
func enabledCategories(g config.Getter, key string) (map[string]bool, error) {
	v, err := g.Get(key)
	if err != nil {
		return nil, err
	}

	var entries map[string]any
	switch m := v.(type) {
	case config.Map:
		entries = m
	case map[string]any:
		entries = config.Flatten(m)
	default:
		return nil, fmt.Errorf("%w: %q is %T, want mapping", config.ErrType, key, v)
	}

	enabled := make(map[string]bool)
	for k, v := range entries {
		if !slices.Contains(categories, k) {
			return nil, fmt.Errorf("%w: warning category %q", ErrUnknownConfigValue, k)
		}
		on, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s is %T, want bool", config.ErrType, key, k, v)
		}
		if on {
			enabled[k] = true
		}
	}
	return enabled, nil
}
