package decoration

import (
	"fmt"
	"sync/atomic"
)

// Attrs are the presentation attributes of an inline decoration.
type Attrs struct {
	NodeName string // Wrapping element name, e.g. "span"
	Class    string // Class names applied to the wrapper
}

// Spec is the producer-defined payload attached to a decoration.
type Spec map[string]any

// String returns the string value for key, or "".
func (s Spec) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Bool returns the bool value for key, or false.
func (s Spec) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// Decoration is an inline decoration over [From, To).
type Decoration struct {
	From  int
	To    int
	Attrs Attrs
	Spec  Spec

	id uint64
}

var idCounter uint64

// Inline creates an inline decoration.
func Inline(from, to int, attrs Attrs, spec Spec) Decoration {
	return Decoration{
		From:  from,
		To:    to,
		Attrs: attrs,
		Spec:  spec,
		id:    atomic.AddUint64(&idCounter, 1),
	}
}

// Len returns the length of the decorated range.
func (d Decoration) Len() int {
	return d.To - d.From
}

// Same reports whether two values are the same decoration, possibly at
// different (mapped) positions.
func (d Decoration) Same(other Decoration) bool {
	return d.id == other.id
}

// String returns a human-readable representation of the decoration.
func (d Decoration) String() string {
	return fmt.Sprintf("inline[%d:%d) %s.%s", d.From, d.To, d.Attrs.NodeName, d.Attrs.Class)
}
