package config

// Flattens nested maps into dotted keys.
//
// Non-empty map[string]any and [Map] values are descended into. Everything
// else, including empty maps, is stored as a leaf so that a key such as
// "process.environment" can hold an empty mapping.
func Flatten(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	flattenInto(out, "", values)
	return out
}

func flattenInto(out map[string]any, prefix string, values map[string]any) {
	for k, v := range values {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch m := v.(type) {
		case Map:
			if len(m) > 0 {
				flattenInto(out, key, m)
				continue
			}
		case map[string]any:
			if len(m) > 0 {
				flattenInto(out, key, m)
				continue
			}
		}
		out[key] = v
	}
}
