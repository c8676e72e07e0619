// Parses flags, loads the manifest and runs the build.
//
// The command line is:
//
//	builder [flags] [TARGET...]
//
//	-v, --verbose          Increase log detail. Repeatable.
//	-p, --profile=NAME     Select the build profile (default "default").
//	-f, --file=PATH        Manifest to load.
//	-D, --set=KEY=VALUE    Override a configuration key. Repeatable.
//	-l, --list             List targets and profiles, then exit.
//	    --version          Show version information.
//
// Without targets every root target of the manifest is built, that is every
// target no other target depends on. Without -f the manifest is searched in
// the current directory, then in the XDG config directories. Override values
// are parsed as YAML scalars, so "true", "3" and "[a, b]" are typed.
package cli
