// Package marker implements markers: named, described stand-ins for a
// structural shape.
//
// A marker is declared once through a Registry (Define, DefineDeclaration or a
// definitions file). Its shape is resolved at most once, lazily by default,
// and never changes afterwards. Index compares a candidate shape with the
// declared one and returns the candidate, so the indexing expression can be
// used wherever the shape itself is expected. Validate checks concrete data
// through a schema built on first use and cached per marker.
//
//	var UploadTimes = marker.MustDefine("UploadTimesType",
//	    shape.DictOf(shape.Str, shape.Str),
//	    "version -> upload time in RFC 3339")
//
//	func record(times map[string]string) { ... }
//
//	s := UploadTimes.MustIndex(shape.TypeOf[map[string]string](), "registry")
//	props, err := UploadTimes.Validate(ctx, data)
//
// Markers are safe for concurrent use: the lazy resolution, the schema cache
// and the metadata are guarded by a per-marker mutex.
package marker
