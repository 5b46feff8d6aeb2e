// Package validation checks request payloads against declarative schemas.
//
// A schema is a Go struct: json tags name the accepted keys, validate tags
// hold the bounds (go-playground/validator), and default tags fill absent
// keys. Validate rejects unknown keys and reports every violation at once.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Issue is one violated rule.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error lists every issue found while validating one input against one schema.
type Error struct {
	Schema string
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s %s", e.Schema, e.Issues[0].Field, e.Issues[0].Message)
	}
	return fmt.Sprintf("%s: %d validation issues", e.Schema, len(e.Issues))
}

// Fields returns the distinct offending field paths in report order.
func (e *Error) Fields() []string {
	seen := make(map[string]bool, len(e.Issues))
	out := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if !seen[issue.Field] {
			seen[issue.Field] = true
			out = append(out, issue.Field)
		}
	}
	return out
}

// AsError returns the validation error wrapped in err, if any.
func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Bounds on money are written as plain numbers in tags.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	// The zero UUID counts as absent for required.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		id, ok := field.Interface().(uuid.UUID)
		if !ok || id == uuid.Nil {
			return ""
		}
		return id.String()
	}, uuid.UUID{})

	// Nullable fields are checked by their value. Absent and null skip the tags.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		n, ok := field.Interface().(nullableField)
		if !ok {
			return nil
		}
		return n.current()
	}, Nullable[string]{}, Nullable[uuid.UUID]{}, Nullable[decimal.Decimal]{})

	if err := v.RegisterValidation("decimals", decimalPlaces); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) >= 2 && len(s) <= 63 && slugPattern.MatchString(s)
	}); err != nil {
		panic(err)
	}

	return v
}

// decimalPlaces rejects amounts with more fractional digits than the param,
// which NUMERIC(10,2) columns would otherwise round away.
func decimalPlaces(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		panic(fmt.Sprintf("validation: bad decimals param %q", fl.Param()))
	}
	d, ok := fieldDecimal(fl)
	if !ok {
		return true
	}
	return d.Equal(d.Round(int32(places)))
}

// fieldDecimal reads the field before the float conversion registered above.
func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	parent := fl.Parent()
	for parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return decimal.Decimal{}, false
		}
		parent = parent.Elem()
	}
	if parent.Kind() == reflect.Struct {
		if f := parent.FieldByName(fl.StructFieldName()); f.IsValid() && f.CanInterface() {
			switch v := f.Interface().(type) {
			case decimal.Decimal:
				return v, true
			case *decimal.Decimal:
				if v != nil {
					return *v, true
				}
				return decimal.Decimal{}, false
			case Nullable[decimal.Decimal]:
				if p := v.Ptr(); p != nil {
					return *p, true
				}
				return decimal.Decimal{}, false
			}
		}
	}
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(fl.Field().Float()), true
	}
	return decimal.Decimal{}, false
}

// Validate decodes raw JSON into the schema T.
//
// The returned value has defaults applied and is safe to hand to business
// rules. On failure the error is an *Error listing every issue.
func Validate[T any](raw []byte) (T, error) {
	var out T
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = []byte("{}")
	}

	d := &decoder{}
	d.object(raw, reflect.ValueOf(&out).Elem(), "")
	return finish(out, d)
}

// ValidateValues validates string-keyed multi-values (query, route params,
// headers) against T, coercing each value to its field type.
func ValidateValues[T any](values map[string][]string) (T, error) {
	var out T
	t := reflect.TypeOf(out)

	members := make(map[string]json.RawMessage, len(values))
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		var raw []byte
		if ft, ok := fieldType(t, key); ok && ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.String {
			raw, _ = json.Marshal(vals)
		} else {
			raw, _ = json.Marshal(vals[0])
		}
		members[key] = raw
	}

	raw, err := json.Marshal(members)
	if err != nil {
		return out, err
	}

	d := &decoder{}
	d.object(raw, reflect.ValueOf(&out).Elem(), "")
	return finish(out, d)
}

func fieldType(t reflect.Type, name string) (reflect.Type, bool) {
	for _, f := range schemaFields(t) {
		if f.name == name {
			return t.Field(f.index).Type, true
		}
	}
	return nil, false
}

func finish[T any](out T, d *decoder) (T, error) {
	issues := d.issues

	if err := validate.Struct(out); err != nil {
		var checked []Issue
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return out, err
		}
		for _, fe := range fieldErrs {
			field := fieldPath(fe.Namespace())
			if d.failed[field] {
				continue
			}
			checked = append(checked, Issue{
				Field:   field,
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Value:   fe.Value(),
				Message: message(fe),
			})
		}
		// Map entries are visited in random order.
		sort.SliceStable(checked, func(i, j int) bool { return checked[i].Field < checked[j].Field })
		issues = append(issues, checked...)
	}

	if len(issues) > 0 {
		var zero T
		return zero, &Error{Schema: reflect.TypeOf(out).Name(), Issues: issues}
	}
	return out, nil
}

// fieldPath drops the schema type name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if isText(fe.Kind()) {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must contain at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if isText(fe.Kind()) {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "decimals":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	case "slug":
		return "must be 2-63 lowercase letters, digits or single hyphens"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "fqdn":
		return "must be a fully qualified domain name"
	case "hexcolor":
		return "must be a hex color"
	case "uppercase":
		return "must be uppercase"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func isText(k reflect.Kind) bool {
	return k == reflect.String
}
