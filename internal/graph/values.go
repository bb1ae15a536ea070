package graph

import (
	"fmt"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

// Int64 reads an integer column from a record. Neo4j returns integers as int64;
// the other widths are accepted so scripted mock results stay readable.
func Int64(record map[string]any, key string) (int64, error) {
	v, ok := record[key]
	if !ok {
		return 0, types.NewError(ErrCodeGraphResultParsing, fmt.Sprintf("column %q missing from record", key))
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, types.NewError(ErrCodeGraphResultParsing, fmt.Sprintf("column %q is %T, not an integer", key, v))
	}
}

// String reads a string column from a record. A null value yields "".
func String(record map[string]any, key string) (string, error) {
	v, ok := record[key]
	if !ok {
		return "", types.NewError(ErrCodeGraphResultParsing, fmt.Sprintf("column %q missing from record", key))
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", types.NewError(ErrCodeGraphResultParsing, fmt.Sprintf("column %q is %T, not a string", key, v))
	}
	return s, nil
}
