package mapping

// MapViewModels converts a slice of domain entities into view models.
func MapViewModels[T, V any](entities []T, mapFunc func(T) V) []V {
	out := make([]V, 0, len(entities))
	for _, e := range entities {
		out = append(out, mapFunc(e))
	}
	return out
}
