package build

import "strings"

var codeReplacer = strings.NewReplacer(" ", "_", ".", "_", "-", "_")

// Returns the normalized identifier for a display name.
//
// The name is lowercased and spaces, dots and dashes become underscores, so
// "Lib Foo-2.1" yields "lib_foo_2_1". Codes namespace Local keys, name
// configuration levels and stamp files.
func Code(name string) string {
	return codeReplacer.Replace(strings.ToLower(name))
}
