// Package targets provides the concrete target kinds.
//
// Every kind embeds [build.Base] and is created through [New] from a kind
// name, a display name, its dependencies and its configuration. Each kind
// declares which configuration keys are Local to the target; these are
// stored as "target.<code>.<key>" and read back in Auto scope. All other
// keys seed the target's frame unchanged and are visible to its
// dependencies.
//
//	group      aggregates dependencies, builds nothing
//	download   fetches "url" into "directory.target"
//	extract    unpacks "file.name" into "directory.output"
//	patch      applies "file" in "directory"
//	create     writes a file or directory at "file.name"
//	copy       copies "source" to "destination"
//	autotools  runs autoreconf and configure in "directory.source"
//	make       runs make in "directory"
//	cmake      configures and builds "directory.source" in "directory.build"
//	execute    runs "command" in "directory"
//
// Commands are given either as a list of arguments or as a single string,
// which is split with shell quoting rules.
package targets
