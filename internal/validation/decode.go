package validation

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// fieldInfo describes one JSON-visible struct field of a schema.
type fieldInfo struct {
	name   string
	index  int
	dflt   string
	hasDef bool
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

var (
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func schemaFields(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	fields := make([]fieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		dflt, hasDef := sf.Tag.Lookup("default")
		fields = append(fields, fieldInfo{name: name, index: i, dflt: dflt, hasDef: hasDef})
	}

	fieldCache.Store(t, fields)
	return fields
}

// isObject reports whether t is decoded key by key rather than handed to encoding/json.
func isObject(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	pt := reflect.PointerTo(t)
	return !pt.Implements(jsonUnmarshalerType) && !pt.Implements(textUnmarshalerType)
}

// decoder walks raw JSON against a schema type, collecting every issue
// instead of stopping at the first one.
type decoder struct {
	issues []Issue
	failed map[string]bool
}

func (d *decoder) add(field, rule, message string, value any) {
	if d.failed == nil {
		d.failed = make(map[string]bool)
	}
	d.failed[field] = true
	d.issues = append(d.issues, Issue{Field: field, Rule: rule, Value: value, Message: message})
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func (d *decoder) object(raw json.RawMessage, dst reflect.Value, path string) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil || members == nil {
		field := path
		if field == "" {
			field = "(root)"
		}
		d.add(field, "type", "must be an object", rawValue(raw))
		return
	}

	fields := schemaFields(dst.Type())
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.name] = true
	}

	unknown := make([]string, 0)
	for key := range members {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		d.add(joinPath(path, key), "unknown", "is not allowed", rawValue(members[key]))
	}

	for _, f := range fields {
		fv := dst.Field(f.index)
		fieldPath := joinPath(path, f.name)
		raw, present := members[f.name]
		if present && isNull(raw) && fv.CanAddr() {
			if n, ok := fv.Addr().Interface().(nullSetter); ok {
				n.setNull()
				continue
			}
		}
		if !present || isNull(raw) {
			d.absent(f, fv, fieldPath)
			continue
		}
		d.value(raw, fv, fieldPath)
	}
}

// absent applies defaults to a missing key, recursing into nested objects so
// that their own defaults land too.
func (d *decoder) absent(f fieldInfo, fv reflect.Value, path string) {
	if f.hasDef {
		if err := coerceString(f.dflt, fv); err != nil {
			panic(fmt.Sprintf("validation: bad default %q for %s: %v", f.dflt, path, err))
		}
		return
	}
	if isObject(fv.Type()) {
		d.object(json.RawMessage("{}"), fv, path)
	}
}

func (d *decoder) value(raw json.RawMessage, fv reflect.Value, path string) {
	t := fv.Type()
	switch {
	case isObject(t):
		d.object(raw, fv, path)
		return
	case t.Kind() == reflect.Pointer && isObject(t.Elem()):
		elem := reflect.New(t.Elem())
		d.object(raw, elem.Elem(), path)
		fv.Set(elem)
		return
	case t.Kind() == reflect.Slice && isObject(t.Elem()):
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			d.add(path, "type", "must be an array", rawValue(raw))
			return
		}
		out := reflect.MakeSlice(t, len(elems), len(elems))
		for i, elem := range elems {
			d.object(elem, out.Index(i), fmt.Sprintf("%s[%d]", path, i))
		}
		fv.Set(out)
		return
	}

	target := reflect.New(t)
	if err := json.Unmarshal(raw, target.Interface()); err == nil {
		fv.Set(target.Elem())
		return
	}

	// Strings are coerced into numeric and boolean fields.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := coerceString(s, fv); err == nil {
			return
		}
	}
	d.add(path, "type", fmt.Sprintf("must be of type %s", typeName(t)), rawValue(raw))
}

// coerceString sets fv from its string form.
func coerceString(s string, fv reflect.Value) error {
	if fv.Kind() == reflect.Pointer {
		elem := reflect.New(fv.Type().Elem())
		if err := coerceString(s, elem.Elem()); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	}

	if fv.CanAddr() {
		if u, ok := fv.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(s))
		}
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(s), fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(n)
	case reflect.Slice:
		if s == "[]" {
			fv.Set(reflect.MakeSlice(fv.Type(), 0, 0))
			return nil
		}
		return fmt.Errorf("cannot coerce %q into %s", s, fv.Type())
	default:
		return fmt.Errorf("cannot coerce %q into %s", s, fv.Type())
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func rawValue(raw json.RawMessage) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Implements(nullableFieldType) {
		return typeName(reflect.Zero(t).Interface().(nullableField).elemType())
	}
	switch t.String() {
	case "uuid.UUID":
		return "uuid"
	case "decimal.Decimal":
		return "number"
	case "time.Time":
		return "datetime"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	}
	return t.Kind().String()
}
