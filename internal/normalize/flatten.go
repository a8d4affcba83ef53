// Package normalize reshapes raw nested API records into flat,
// fixed-column records suitable for tabular storage.
package normalize

// Flatten recursively flattens a nested object into a single-level map
// whose keys are {prefix}_{nestedKey} chains. List values are kept intact
// under their prefixed key, never flattened. The transform is total and
// deterministic: the same input always yields the same flat key set, and
// already-flat input passes through unchanged.
func Flatten(prefix string, obj map[string]any) map[string]any {
	flat := make(map[string]any, len(obj))
	for key, value := range obj {
		name := key
		if prefix != "" {
			name = prefix + "_" + key
		}
		switch v := value.(type) {
		case map[string]any:
			for childKey, childValue := range Flatten(name, v) {
				flat[childKey] = childValue
			}
		default:
			flat[name] = v
		}
	}
	return flat
}
