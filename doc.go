// Package intellitype lets a program bind a name, a human-readable description
// and a structural shape together as a marker, use the marker wherever the
// shape is expected, and validate concrete data against the shape.
//
// Design policy:
//   - The root package holds the validation contract (Schema, Issues, Source,
//     ParseFrom) and the error taxonomy shared by every subpackage.
//   - shape/ describes structural shapes and normalizes union-marker forms.
//   - dsl/ compiles shapes into schemas.
//   - marker/ owns markers: declaration, resolution, indexing and the per-marker
//     schema cache.
//   - jsonschema/ and openapi/ project schemas; definitions/ loads markers from
//     YAML; cmd/intellitype is the CLI.
//
// Typical usage:
//
//	uploads := marker.MustDefine("UploadTimesType", shape.DictOf(shape.Str, shape.Str),
//	    "version -> upload time (RFC 3339)")
//
//	// drop-in annotation: returns the shape itself
//	s, err := uploads.Index(shape.DictOf(shape.Str, shape.Str), "from-registry")
//
//	props, err := uploads.Validate(ctx, map[string]any{"1.0.0": "2023-06-01T12:00:00Z"})
//	props, err = uploads.ValidateFrom(ctx, intellitype.JSONBytes(data))
package intellitype
