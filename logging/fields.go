package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// With applies fields in order.
func With(e *bolt.Event, fields ...Field) *bolt.Event {
	for _, f := range fields {
		e = f(e)
	}
	return e
}

// RunID adds a plan run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

func Granularity(g float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("granularity", strconv.FormatFloat(g, 'g', -1, 64))
	}
}

// Dims adds the configuration space extents.
func Dims(numX, numY, numShapes int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("num_x", numX).Int("num_y", numY).Int("num_shapes", numShapes)
	}
}

// Cells adds a per-label cell count.
func Cells(label string, n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("cells_"+label, n)
	}
}

func Explored(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("explored", n)
	}
}

// Cost adds an accumulated path cost.
func Cost(c float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("cost", strconv.FormatFloat(c, 'g', -1, 64))
	}
}

func PathLen(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("path_len", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Err(err)
	}
}

func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
