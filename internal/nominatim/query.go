package nominatim

import (
	"net/url"
	"strings"
)

// Query is an insertion-ordered set of request parameters.
// The zero value is an empty query ready to use.
type Query struct {
	keys   []string
	values map[string]string
}

// Set stores value under key. Overwriting keeps the key at its original position.
func (q *Query) Set(key, value string) {
	if q.values == nil {
		q.values = make(map[string]string)
	}
	if _, exists := q.values[key]; !exists {
		q.keys = append(q.keys, key)
	}
	q.values[key] = value
}

// Del removes key from the query.
func (q *Query) Del(key string) {
	if _, exists := q.values[key]; !exists {
		return
	}
	delete(q.values, key)
	for i, k := range q.keys {
		if k == key {
			q.keys = append(q.keys[:i], q.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value stored under key, or "" when absent.
func (q Query) Get(key string) string {
	return q.values[key]
}

func (q Query) Has(key string) bool {
	_, ok := q.values[key]
	return ok
}

func (q Query) Len() int {
	return len(q.keys)
}

// Keys returns the parameter names in insertion order.
func (q Query) Keys() []string {
	keys := make([]string, len(q.keys))
	copy(keys, q.keys)
	return keys
}

// Map returns an unordered copy of the parameters.
func (q Query) Map() map[string]string {
	out := make(map[string]string, len(q.keys))
	for _, k := range q.keys {
		out[k] = q.values[k]
	}
	return out
}

// Clone returns a deep copy that shares no state with q.
func (q Query) Clone() Query {
	clone := Query{
		keys:   make([]string, len(q.keys)),
		values: make(map[string]string, len(q.keys)),
	}
	copy(clone.keys, q.keys)
	for k, v := range q.values {
		clone.values[k] = v
	}
	return clone
}

// Encode form-urlencodes the parameters in insertion order.
func (q Query) Encode() string {
	var b strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(q.values[k]))
	}
	return b.String()
}
