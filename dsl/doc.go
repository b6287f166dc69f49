// Package dsl compiles structural shapes into validation schemas.
//
// Overview
//   - FromShape(s): compile a normalized shape into an intellitype.Schema[any].
//   - Primitives: String(), Int(), Float(), Bool(), Bytes(), Null(), AnyValue().
//   - Collections: List(elem), Set(elem), Tuple(elems...), VarTuple(elem),
//     Dict(key, value).
//   - Union(alts...): first matching alternative wins.
//   - Bound(t): arbitrary Go types, checked by assignability.
//   - Object(): a small strict object builder (Field/Require/Build).
//   - PropsBuilder: builds the "<Name>Props" object with a single required
//     "data" field, the schema markers validate through.
//
// Values produced by Parse are normalized: integers become int64, numbers
// float64, sequences []any, and string-keyed mappings map[string]any.
//
// Example
//
//	s, err := dsl.FromShape(shape.MustParse("dict[str, list[int]]"))
//	v, err := s.Parse(ctx, map[string]any{"a": []any{1, 2}})
//
// Unknown leaf names (types no schema knows about) accept any value; unknown
// containers and malformed tuples are rejected by FromShape with
// intellitype.ErrConfiguration.
package dsl
