package sip2

import (
	"fmt"
	"strings"
)

// TransformFunc converts a typed value into its SIP2 text representation.
// Transforms run when a value is attached to a field, before padding.
type TransformFunc func(v any) string

// FixedField describes a positional fixed-width field. Fixed fields carry no
// delimiter on the wire; they occupy exactly Length characters right after
// the command code, in catalog order.
type FixedField struct {
	Name      string
	Label     string
	Length    int
	Fill      byte // pad character, ' ' when zero
	PadLeft   bool // right-align the value, used by numeric counters
	Transform TransformFunc
}

// VarField describes a variable field of the form <Tag><value>|.
// Tag is a globally unique 2-character identifier. Multiple marks fields that
// may repeat within one message (item lists, screen messages).
type VarField struct {
	Name      string
	Tag       string
	Label     string
	Length    int // 0 means unbounded
	Multiple  bool
	Transform TransformFunc
}

// Registry is an immutable lookup table of field definitions. It is built
// once at startup and shared read-only across all connections.
type Registry struct {
	fixed map[string]*FixedField
	vars  map[string]*VarField
	byTag map[string]*VarField
}

// NewRegistry builds a Registry from the given definitions. It returns
// ErrDuplicateFieldTag if two variable fields share the same tag.
func NewRegistry(fixed []*FixedField, vars []*VarField) (*Registry, error) {
	r := &Registry{
		fixed: make(map[string]*FixedField, len(fixed)),
		vars:  make(map[string]*VarField, len(vars)),
		byTag: make(map[string]*VarField, len(vars)),
	}

	for _, f := range fixed {
		r.fixed[f.Name] = f
	}

	for _, f := range vars {
		if _, ok := r.byTag[f.Tag]; ok {
			return nil, fmt.Errorf("%w: %q claimed twice", ErrDuplicateFieldTag, f.Tag)
		}
		r.vars[f.Name] = f
		r.byTag[f.Tag] = f
	}

	return r, nil
}

// Fixed returns the fixed field definition registered under name.
func (r *Registry) Fixed(name string) (*FixedField, error) {
	f, ok := r.fixed[name]
	if !ok {
		return nil, fmt.Errorf("%w: fixed field %q", ErrUnknownField, name)
	}
	return f, nil
}

// Var returns the variable field definition registered under name.
func (r *Registry) Var(name string) (*VarField, error) {
	f, ok := r.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: variable field %q", ErrUnknownField, name)
	}
	return f, nil
}

// VarByTag returns the variable field definition owning the 2-character tag.
func (r *Registry) VarByTag(tag string) (*VarField, error) {
	f, ok := r.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: tag %q", ErrUnknownField, tag)
	}
	return f, nil
}

// pad renders a raw value into the field's fixed-width wire form. Values
// longer than the field are truncated; shorter values are padded with the
// fill character, left or right depending on PadLeft.
func (f *FixedField) pad(value string) string {
	if len(value) > f.Length {
		return value[:f.Length]
	}

	fill := f.Fill
	if fill == 0 {
		fill = ' '
	}

	padding := strings.Repeat(string(fill), f.Length-len(value))
	if f.PadLeft {
		return padding + value
	}
	return value + padding
}

// pad applies the optional length constraint of a variable field: the value
// is truncated to Length and right-padded with spaces, matching how counters
// and date fields are rendered inside variable fields.
func (f *VarField) pad(value string) string {
	if f.Length <= 0 {
		return value
	}
	if len(value) > f.Length {
		value = value[:f.Length]
	}
	return value + strings.Repeat(" ", f.Length-len(value))
}
