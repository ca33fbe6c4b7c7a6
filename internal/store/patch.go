package store

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Optional records whether a JSON key was present, so an explicit null can be
// told apart from an omitted field in PATCH payloads.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Null = bytes.Equal(bytes.TrimSpace(data), []byte("null"))
	return json.Unmarshal(data, &o.Value)
}

type nullCheck struct {
	field string
	null  bool
}

// rejectNulls fails on the first field that must hold a value but was sent
// as an explicit null.
func rejectNulls(checks ...nullCheck) error {
	for _, c := range checks {
		if c.null {
			return invalid("%s must not be null", c.field)
		}
	}
	return nil
}

// setClause accumulates "col = ?" assignments for an UPDATE.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, value any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, value)
}

func (s *setClause) empty() bool { return len(s.cols) == 0 }

func (s *setClause) String() string {
	cols := make([]string, 0, len(s.cols)+1)
	cols = append(cols, s.cols...)
	return strings.Join(append(cols, "updated_at = CURRENT_TIMESTAMP"), ", ")
}

func (s *setClause) clone() setClause {
	return setClause{
		cols: append([]string(nil), s.cols...),
		args: append([]any(nil), s.args...),
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
