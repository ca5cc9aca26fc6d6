package bounds

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number is a numeric type that may be used as the bound of a Range.
type Number interface {
	constraints.Integer | constraints.Float
}

// Range is a half-open interval [Min, Max). Density rolls and height/width
// bounds are both expressed as ranges.
type Range[T Number] struct {
	Min, Max T
}

// Of returns a Range with the bounds passed.
func Of[T Number](lo, hi T) Range[T] {
	return Range[T]{Min: lo, Max: hi}
}

// Validate returns an error if the range is empty or inverted.
func (r Range[T]) Validate() error {
	if r.Min >= r.Max {
		return fmt.Errorf("range [%v, %v) has min >= max", r.Min, r.Max)
	}
	return nil
}

// Contains reports if v lies in [Min, Max).
func (r Range[T]) Contains(v T) bool {
	return v >= r.Min && v < r.Max
}

// Span returns Max - Min.
func (r Range[T]) Span() T {
	return r.Max - r.Min
}

// Scale multiplies both bounds by f.
func (r Range[T]) Scale(f float64) Range[T] {
	return Range[T]{Min: T(float64(r.Min) * f), Max: T(float64(r.Max) * f)}
}

// String returns the range in interval notation.
func (r Range[T]) String() string {
	return fmt.Sprintf("[%v, %v)", r.Min, r.Max)
}
