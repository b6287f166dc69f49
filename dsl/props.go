package dsl

import (
	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/shape"
)

// DataField is the single field of a props object.
const DataField = "data"

// PropsBuilder builds props objects: strict objects with one required field,
// "data", typed by the given shape. Markers validate their data through it.
type PropsBuilder struct{}

// BuildSchema compiles s and wraps it as the "data" field of an object titled
// name.
func (PropsBuilder) BuildSchema(s shape.Shape, name string) (intellitype.Schema[map[string]any], error) {
	field, err := FromShape(s)
	if err != nil {
		return nil, err
	}
	return Object().Title(name).Field(DataField, field).Require(DataField).Build()
}
