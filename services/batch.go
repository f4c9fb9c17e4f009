package services

// ProcessAll applies fn to every item in order and never short-circuits.
// The returned slice has one entry per item, nil for successes, so callers
// can report partial failure without losing batch progress.
func ProcessAll[T any](items []T, fn func(T) error) []error {
	errs := make([]error, len(items))
	for i, item := range items {
		errs[i] = fn(item)
	}
	return errs
}

// CountErrors reports how many entries of a ProcessAll result are non-nil.
func CountErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}
