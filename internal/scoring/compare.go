package scoring

import "cmp"

// Comparator orders two values the way slices.SortFunc expects: negative
// when a sorts first.
type Comparator[T any] func(a, b T) int

// ByDesc orders by a numeric key, largest first
func ByDesc[T any](key func(T) float64) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(key(b), key(a))
	}
}

// ByAsc orders by a numeric key, smallest first
func ByAsc[T any](key func(T) float64) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

// ByAscString orders by a string key lexicographically
func ByAscString[T any](key func(T) string) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

// Then falls through to next when c reports a tie
func (c Comparator[T]) Then(next Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if r := c(a, b); r != 0 {
			return r
		}
		return next(a, b)
	}
}

// ThenDesc breaks ties on c by key, largest first
func (c Comparator[T]) ThenDesc(key func(T) float64) Comparator[T] {
	return c.Then(ByDesc(key))
}

// ThenAsc breaks ties on c by key, smallest first
func (c Comparator[T]) ThenAsc(key func(T) float64) Comparator[T] {
	return c.Then(ByAsc(key))
}

// ThenAscString breaks ties on c by a string key in byte order
func (c Comparator[T]) ThenAscString(key func(T) string) Comparator[T] {
	return c.Then(ByAscString(key))
}
