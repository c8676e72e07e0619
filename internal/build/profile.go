package build

import "maps"

// Name of the profile every [Build] carries.
const DefaultProfile = "default"

// A named set of configuration overrides selectable at build time.
type Profile struct {
	Name   string         // Display name.
	Code   string         // Normalized identifier, see [Code].
	Config map[string]any // Values of the "profile.<code>" level.
}

// Creates a new [Profile].
func NewProfile(name string, cfg map[string]any) Profile {
	return Profile{
		Name:   name,
		Code:   Code(name),
		Config: maps.Clone(cfg),
	}
}

// Returns the configuration level name of the profile.
func (p Profile) Level() string {
	return "profile." + p.Code
}
