package validation

import (
	"encoding/json"
	"reflect"
)

// Nullable is an update field that tells an absent key apart from an
// explicit null. Absent leaves the stored value alone; null clears it.
type Nullable[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a Nullable holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Set: true}
}

// Null returns a Nullable that clears the stored value.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

// Ptr returns the new value, or nil when the field is absent or cleared.
func (n Nullable[T]) Ptr() *T {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}

// Cleared reports whether the request set the field to null.
func (n Nullable[T]) Cleared() bool {
	return n.Set && n.Null
}

// Merge returns what the stored value becomes after the update.
func (n Nullable[T]) Merge(cur *T) *T {
	if !n.Set {
		return cur
	}
	return n.Ptr()
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*n = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Nullable[T]) setNull() {
	*n = Null[T]()
}

func (n Nullable[T]) elemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// current is what validator tags are checked against. It is a pointer so
// omitempty treats a set zero value as present; nil skips the tags.
func (n Nullable[T]) current() any {
	if p := n.Ptr(); p != nil {
		return p
	}
	return nil
}

type nullSetter interface {
	setNull()
}

type nullableField interface {
	elemType() reflect.Type
	current() any
}

var nullableFieldType = reflect.TypeOf((*nullableField)(nil)).Elem()
