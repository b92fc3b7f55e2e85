package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/core"
)

// ParseID reads a positive integer path parameter.
func ParseID(r *http.Request, param string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Invalid(param, "must be a positive integer")
	}
	return id, nil
}

// DecodeJSON decodes a single JSON value from the request body into dst.
// Malformed bodies come back as a ValidationError; an oversized body keeps its
// *http.MaxBytesError so it can be reported as such.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return core.Invalid("body", "is required")
		}
		return core.Invalid("body", fmt.Sprintf("is not valid JSON: %v", err))
	}
	return nil
}

// DecodeFields decodes a JSON object body into a field map with numbers
// normalised to int64 or float64.
func DecodeFields(r *http.Request) (map[string]any, error) {
	var raw map[string]any
	if err := DecodeJSON(r, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, core.Invalid("body", "must be a JSON object")
	}
	for key, value := range raw {
		if number, ok := value.(json.Number); ok {
			if i, err := number.Int64(); err == nil {
				raw[key] = i
				continue
			}
			f, err := number.Float64()
			if err != nil {
				return nil, &core.CoercionError{Field: key, Value: number.String(), Target: core.KindFloat.String()}
			}
			raw[key] = f
		}
	}
	return raw, nil
}

func ClientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
