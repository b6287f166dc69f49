package dsl

import (
	"context"
	"sort"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/i18n"
	js "github.com/reoring/intellitype/jsonschema"
)

// ObjectBuilder declares a strict object: known fields only, each validated by
// its schema.
type ObjectBuilder struct {
	title    string
	desc     string
	order    []string
	fields   map[string]intellitype.Schema[any]
	required map[string]struct{}
}

// Object creates a new object builder. Unknown keys are rejected.
func Object() *ObjectBuilder {
	return &ObjectBuilder{fields: map[string]intellitype.Schema[any]{}, required: map[string]struct{}{}}
}

// Title names the object in its JSON Schema projection.
func (b *ObjectBuilder) Title(t string) *ObjectBuilder { b.title = t; return b }

// Description documents the object in its JSON Schema projection.
func (b *ObjectBuilder) Description(d string) *ObjectBuilder { b.desc = d; return b }

// Field registers a field with its schema.
func (b *ObjectBuilder) Field(name string, s intellitype.Schema[any]) *ObjectBuilder {
	if _, ok := b.fields[name]; !ok {
		b.order = append(b.order, name)
	}
	b.fields[name] = s
	return b
}

// Require marks one or more fields as required.
func (b *ObjectBuilder) Require(names ...string) *ObjectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// Build validates the declaration and returns the object schema.
func (b *ObjectBuilder) Build() (intellitype.Schema[map[string]any], error) {
	for n := range b.required {
		if _, ok := b.fields[n]; !ok {
			return nil, intellitype.Configurationf("required field %q is not declared", n)
		}
	}
	req := make([]string, 0, len(b.required))
	for n := range b.required {
		req = append(req, n)
	}
	sort.Strings(req)
	fields := make(map[string]intellitype.Schema[any], len(b.fields))
	for k, v := range b.fields {
		fields[k] = v
	}
	return &objectSchema{title: b.title, desc: b.desc, order: append([]string(nil), b.order...), fields: fields, required: req}, nil
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() intellitype.Schema[map[string]any] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

type objectSchema struct {
	title    string
	desc     string
	order    []string
	fields   map[string]intellitype.Schema[any]
	required []string
}

func (o *objectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalidType("object", v)
	}
	var iss intellitype.Issues
	for _, n := range o.required {
		if _, ok := m[n]; !ok {
			iss = intellitype.AppendIssues(iss, intellitype.Issue{Path: intellitype.JoinPointer("", n), Code: intellitype.CodeRequired, Message: i18n.T(intellitype.CodeRequired, nil)})
		}
	}
	unknown := make([]string, 0)
	for k := range m {
		if _, ok := o.fields[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		iss = intellitype.AppendIssues(iss, intellitype.Issue{Path: intellitype.JoinPointer("", k), Code: intellitype.CodeUnknownKey, Message: i18n.T(intellitype.CodeUnknownKey, nil)})
	}
	if len(iss) > 0 && intellitype.IsFailFast(ctx) {
		return nil, iss
	}

	out := make(map[string]any, len(m))
	for _, n := range o.order {
		raw, ok := m[n]
		if !ok {
			continue
		}
		val, err := o.fields[n].Parse(ctx, raw)
		if err != nil {
			iss = intellitype.AppendIssues(iss, intellitype.RebaseIssues(intellitype.JoinPointer("", n), err)...)
			if intellitype.IsFailFast(ctx) {
				break
			}
			continue
		}
		out[n] = val
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (o *objectSchema) Validate(ctx context.Context, v any) error {
	_, err := o.Parse(ctx, v)
	return err
}

func (o *objectSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{
		Title:                o.title,
		Description:          o.desc,
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(o.fields)),
		Required:             append([]string(nil), o.required...),
		AdditionalProperties: false,
	}
	for n, s := range o.fields {
		fs, err := s.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.Properties[n] = fs
	}
	return out, nil
}
