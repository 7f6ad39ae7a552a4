// Package bind decodes request payloads into Go structs and runs their
// validation tags in a single call.
package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gfmachado/autorevenda/pkg/validate"
)

// ErrMalformedBody is returned when the request body is not valid JSON.
var ErrMalformedBody = errors.New("corpo da requisição inválido")

// JSON decodes the request body into dst and validates it.
// The returned map is nil when decoding fails, empty when valid.
func JSON(r *http.Request, dst interface{}) (map[string]string, error) {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return nil, ErrMalformedBody
	}
	return validate.Struct(dst), nil
}

// Form reads dst's fields from multipart/urlencoded form values by
// populating a map keyed by field name, then validates. Callers that need
// typed coercion should read r.FormValue directly and use validate.Struct.
func Form(r *http.Request, dst interface{}) (map[string]string, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if err2 := r.ParseForm(); err2 != nil {
			return nil, ErrMalformedBody
		}
	}
	return validate.Struct(dst), nil
}

// QueryInt reads an integer query parameter, falling back to def when
// absent or unparsable.
func QueryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// QueryString reads a string query parameter with a default.
func QueryString(r *http.Request, key, def string) string {
	if raw := r.URL.Query().Get(key); raw != "" {
		return raw
	}
	return def
}
