package marker

import (
	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/shape"
)

// TypeMismatchError reports an Index call whose candidate shape differs from
// the declared one. It matches intellitype.ErrTypeMismatch with errors.Is.
type TypeMismatchError struct {
	Marker   string
	Expected shape.Shape
	Got      shape.Shape
}

func (e *TypeMismatchError) Error() string {
	return "type mismatch for " + e.Marker + ": expected " + e.Expected.String() + ", but got " + e.Got.String()
}

func (e *TypeMismatchError) Unwrap() error { return intellitype.ErrTypeMismatch }
