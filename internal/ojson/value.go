// Package ojson is a minimal order-preserving JSON value model: parsing
// keeps object keys in source order, and objects support inserting a
// new key immediately after an existing sibling — the one operation
// encoding/json's map[string]interface{} can't express and that no
// ordered-map library in the retrieval pack exposes either (see
// SPEC_FULL.md's "C5 addition"). Built on encoding/json's streaming
// Decoder/Token API; this is the one part of this repository built on
// the standard library rather than a third-party package, documented in
// DESIGN.md.
package ojson

import "encoding/json"

// Kind discriminates the JSON value variants this package tracks.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// Value is a JSON value that remembers object key order all the way
// down the tree.
type Value struct {
	Kind Kind

	Obj *Object
	Arr []*Value

	Str  string
	Num  json.Number
	Bool bool
}

// Object is an insertion-order-preserving JSON object.
type Object struct {
	keys []string
	vals map[string]*Value
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{vals: make(map[string]*Value)}
}

// Keys returns the object's keys in insertion order. The slice is
// owned by the caller and may be mutated freely.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys in the object.
func (o *Object) Len() int {
	return len(o.keys)
}

// Get looks up a key, reporting whether it exists.
func (o *Object) Get(key string) (*Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Set adds or overwrites a key. A new key is appended at the end of the
// insertion order; an existing key keeps its current position.
func (o *Object) Set(key string, v *Value) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// InsertAfter inserts a brand-new key immediately after an existing
// sibling key in insertion order. It reports false if newKey already
// exists or afterKey is not present (the caller picked a bad sibling).
func (o *Object) InsertAfter(afterKey, newKey string, v *Value) bool {
	if _, exists := o.vals[newKey]; exists {
		return false
	}
	idx := -1
	for i, k := range o.keys {
		if k == afterKey {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	o.keys = append(o.keys, "")
	copy(o.keys[idx+2:], o.keys[idx+1:])
	o.keys[idx+1] = newKey
	o.vals[newKey] = v
	return true
}

// Delete removes a key if present.
func (o *Object) Delete(key string) {
	if _, exists := o.vals[key]; !exists {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// String builds a string-valued leaf Value.
func String(s string) *Value { return &Value{Kind: KindString, Str: s} }

// Bool builds a boolean-valued leaf Value.
func Bool(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

// Array builds an array-valued Value from its elements.
func Array(elems ...*Value) *Value { return &Value{Kind: KindArray, Arr: elems} }

// ObjectValue wraps an *Object as a Value.
func ObjectValue(o *Object) *Value { return &Value{Kind: KindObject, Obj: o} }
