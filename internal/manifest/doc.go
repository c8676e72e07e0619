// Package manifest loads build manifests.
//
// A manifest declares the main configuration, named profiles and targets.
// It is written in TOML or YAML; the format is chosen by file extension.
//
//	[config]
//	directory.root = "/var/tmp/builder"
//
//	[profiles.release]
//	language.c.warnings.errors = true
//
//	[[targets]]
//	name = "download zlib"
//	kind = "download"
//	config.url = "https://zlib.net/zlib-1.3.1.tar.gz"
//
//	[[targets]]
//	name = "extract zlib"
//	kind = "extract"
//	depends = ["download zlib"]
//	config.file.name = "${target.download_zlib.file.output}"
//
// String values containing "${key}" become deferred templates expanded
// against the configuration of the target reading them. Keys under a
// target's "local" table are namespaced to that target regardless of its
// kind.
package manifest
