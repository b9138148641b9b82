package logging

import "time"

// Field constructors for the identifiers that appear throughout the system.

// UserID creates a user id field
func UserID(id int64) Field {
	return Field{Key: "user_id", Value: id}
}

// GraphID creates a graph id field
func GraphID(id int64) Field {
	return Field{Key: "graph_id", Value: id}
}

// NodeID creates a node id field
func NodeID(id int64) Field {
	return Field{Key: "node_id", Value: id}
}

// EdgeID creates an edge id field
func EdgeID(id int64) Field {
	return Field{Key: "edge_id", Value: id}
}

// Op creates an operation name field
func Op(name string) Field {
	return Field{Key: "op", Value: name}
}

// Count creates a count field
func Count(n int) Field {
	return Field{Key: "count", Value: n}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Latency creates a duration field in milliseconds
func Latency(d time.Duration) Field {
	return Field{Key: "latency_ms", Value: float64(d.Microseconds()) / 1000.0}
}

// String creates a generic string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates a generic int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}
