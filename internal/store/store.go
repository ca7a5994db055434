// Package store provides the durable settings stores backing the resource
// engine's persistence bridge. Keys are slash-delimited strings
// (e.g. "icons/custom/file.save/svg_path"); values are scalars.
//
// Three implementations are available: a viper-backed YAML file store (the
// default), a SQLite-backed store for installations that keep settings in
// the project database, and an in-memory store for tests.
package store

import (
	"fmt"
	"strconv"
)

// stringify renders a stored scalar for string retrieval.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// intify coerces a stored scalar to int, reporting whether it was usable.
func intify(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
