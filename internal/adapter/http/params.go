package http

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/quake-data-service/internal/domain"
)

// queryReader reads typed query parameters and collects parse failures so a
// request reports every bad field at once. Range checks happen in the engine.
type queryReader struct {
	values url.Values
	fields []domain.FieldError
}

func newQueryReader(values url.Values) *queryReader {
	return &queryReader{values: values}
}

func (q *queryReader) raw(name string) (string, bool) {
	v := strings.TrimSpace(q.values.Get(name))
	return v, v != ""
}

func (q *queryReader) fail(name, rule, msg string) {
	q.fields = append(q.fields, domain.FieldError{Field: name, Rule: rule, Message: msg})
}

func (q *queryReader) float(name string, def float64) float64 {
	s, ok := q.raw(name)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		q.fail(name, "number", "must be a number")
		return def
	}
	return v
}

func (q *queryReader) requiredFloat(name string) float64 {
	if _, ok := q.raw(name); !ok {
		q.fail(name, "required", "is required")
		return 0
	}
	return q.float(name, 0)
}

func (q *queryReader) int(name string, def int) int {
	s, ok := q.raw(name)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		q.fail(name, "integer", "must be an integer")
		return def
	}
	return v
}

func (q *queryReader) string(name, def string) string {
	if s, ok := q.raw(name); ok {
		return s
	}
	return def
}

// point reads the lat and lon parameters.
func (q *queryReader) point() domain.Point {
	return domain.Point{Latitude: q.requiredFloat("lat"), Longitude: q.requiredFloat("lon")}
}

func (q *queryReader) err() error {
	if len(q.fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: q.fields}
}
