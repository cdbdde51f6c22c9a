package claim

import "fmt"

// PrunedValueError is returned when the caller asks for the full value of
// a node that only exists as its digest.
type PrunedValueError struct {
	// Digest of the pruned value.
	Digest Digest
}

func (e *PrunedValueError) Error() string {
	return fmt.Sprintf("value is pruned, only digest %s is available", e.Digest)
}

// MaybePruned holds either a full value or just its digest. Pruning never
// changes what is attested: Digest() is identical in both states. Only
// local inspectability is lost.
type MaybePruned[T Digestible] struct {
	value  *T
	pruned Digest
}

// Value wraps a full, locally inspectable value.
func Value[T Digestible](v T) MaybePruned[T] {
	return MaybePruned[T]{value: &v}
}

// Pruned wraps a digest in place of the value it stands for.
func Pruned[T Digestible](d Digest) MaybePruned[T] {
	return MaybePruned[T]{pruned: d}
}

// IsPruned reports whether only the digest is available. The zero value
// of MaybePruned is pruned with the zero digest.
func (m MaybePruned[T]) IsPruned() bool {
	return m.value == nil
}

// Digest returns the digest of the underlying value, pruned or not.
func (m MaybePruned[T]) Digest() Digest {
	if m.value == nil {
		return m.pruned
	}
	return (*m.value).Digest()
}

// Value returns the underlying value, or *PrunedValueError if it was
// replaced by its digest.
func (m MaybePruned[T]) Value() (T, error) {
	if m.value == nil {
		var zero T
		return zero, &PrunedValueError{Digest: m.pruned}
	}
	return *m.value, nil
}
