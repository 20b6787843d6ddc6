package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
)

func newAPIError(status int, body []byte) *errs.APIError {
	return &errs.APIError{Status: status, Message: ExtractMessage(status, body)}
}

// ExtractMessage picks a human readable message out of an error body:
// "error", then "detail", then a bare string, then every value flattened
// and joined, then the raw JSON. Bodies that are not JSON yield
// "<status> <statusText>".
func ExtractMessage(status int, body []byte) string {
	fallback := strings.TrimSpace(fmt.Sprintf("%d %s", status, http.StatusText(status)))

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	switch v := payload.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		for _, key := range []string{"error", "detail"} {
			if msg := strings.Join(flatten(v[key]), ", "); msg != "" {
				return msg
			}
		}
		if parts := flatten(v); len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
		if len(v) > 0 {
			dump, _ := json.Marshal(v) //nolint:errcheck
			return string(dump)
		}
	case []any:
		if parts := flatten(v); len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return fallback
}

// flatten collects the leaf values of a decoded JSON value; object keys are
// visited in sorted order.
func flatten(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case float64:
		return []string{strconv.FormatFloat(t, 'f', -1, 64)}
	case bool:
		return []string{strconv.FormatBool(t)}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, flatten(t[k])...)
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}
