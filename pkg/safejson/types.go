package safejson

import (
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Ordered JSON object, keys keep insertion order when encoded
type Object = orderedmap.OrderedMap[string, any]

// Textual form of a numeric value, written verbatim
type Number string

// Already encoded (and validated) JSON document
type RawJSON []byte

// Marker for values that have no JSON representation (funcs, chans, repeated references)
type omitted struct{}

// Identity of a reference-like value already walked
type reference struct {
	kind   reflect.Kind
	typ    reflect.Type
	ptr    uintptr
	length int
}

// Per-call traversal state
type detacher struct {
	seen map[reference]struct{}
}

// Creates an empty ordered object
func NewObject() (object *Object) {
	object = orderedmap.New[string, any]()
	return
}
