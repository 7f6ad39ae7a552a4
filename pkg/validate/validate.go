// Package validate provides struct-tag validation for request inputs.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	numeric             any number
//	integer             whole number
//	boolean             "true","false","1","0" (or actual bool)
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gte=N               number >= N
//	lte=N               number <= N
//	in=a,b,c            value must be one of the listed items
//
// Example:
//
//	type Input struct {
//	    Nome  string `json:"nome"  validate:"required,min=2,max=120"`
//	    Email string `json:"email" validate:"required,email"`
//	    Senha string `json:"senha" validate:"required,min=6"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}
		// Optional fields arrive as pointers; rules see the pointee.
		if value.Kind() == reflect.Ptr && !value.IsNil() {
			value = value.Elem()
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(strings.TrimSpace(rule), name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("o campo %s é obrigatório", field)
		}
	case "email":
		if !emailRe.MatchString(raw) {
			return fmt.Sprintf("o campo %s deve ser um email válido", field)
		}
	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("o campo %s deve ser numérico", field)
		}
	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("o campo %s deve ser um número inteiro", field)
		}
	case "boolean":
		switch strings.ToLower(raw) {
		case "true", "false", "1", "0":
		default:
			return fmt.Sprintf("o campo %s deve ser booleano", field)
		}
	case "min":
		if !compare(v, param, func(got, want float64) bool { return got >= want }) {
			return fmt.Sprintf("o campo %s deve ser no mínimo %s", field, param)
		}
	case "max":
		if !compare(v, param, func(got, want float64) bool { return got <= want }) {
			return fmt.Sprintf("o campo %s deve ser no máximo %s", field, param)
		}
	case "gte":
		if !compareNum(v, param, func(got, want float64) bool { return got >= want }) {
			return fmt.Sprintf("o campo %s deve ser maior ou igual a %s", field, param)
		}
	case "lte":
		if !compareNum(v, param, func(got, want float64) bool { return got <= want }) {
			return fmt.Sprintf("o campo %s deve ser menor ou igual a %s", field, param)
		}
	case "in":
		allowed := strings.Split(param, ",")
		for _, a := range allowed {
			if raw == a {
				return ""
			}
		}
		return fmt.Sprintf("o campo %s deve ser um de: %s", field, param)
	}

	return ""
}

// compare applies min/max semantics: char length for strings, value for numbers.
func compare(v reflect.Value, param string, cmp func(got, want float64) bool) bool {
	want, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return true
	}

	switch v.Kind() {
	case reflect.String:
		return cmp(float64(len([]rune(v.String()))), want)
	default:
		return compareNum(v, param, cmp)
	}
}

func compareNum(v reflect.Value, param string, cmp func(got, want float64) bool) bool {
	want, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return true
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp(float64(v.Int()), want)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp(float64(v.Uint()), want)
	case reflect.Float32, reflect.Float64:
		return cmp(v.Float(), want)
	default:
		got, err := strconv.ParseFloat(fmt.Sprintf("%v", v.Interface()), 64)
		if err != nil {
			return false
		}
		return cmp(got, want)
	}
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == name {
			return true
		}
	}
	return false
}

// jsonFieldName prefers the json tag so error keys match the wire format.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
