// Cycle-safe conversion of arbitrary Go values to JSON text.
// Values are first detached into a tree owned by the caller (nil, bool, string,
// Number, RawJSON, []any, *Object), then encoded.
package safejson

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// Deep copies v into a detached tree.
// A reference (pointer, map, non-empty slice, object) met a second time is
// dropped from objects and rendered as null inside arrays.
func Detach(v any) (tree any) {
	walker := detacher{seen: make(map[reference]struct{})}
	tree = walker.walk(reflect.ValueOf(v))
	if _, skip := tree.(omitted); skip {
		tree = nil
	}
	return
}

// Marks reference as visited, returns false if it already was
func (walker *detacher) visit(ref reference) (first bool) {
	if _, seen := walker.seen[ref]; seen {
		return
	}
	walker.seen[ref] = struct{}{}
	first = true
	return
}

func (walker *detacher) walk(value reflect.Value) (tree any) {
	if !value.IsValid() {
		return
	}

	switch value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if value.IsNil() {
			return
		}
	}

	if value.CanInterface() {
		var handled bool
		tree, handled = walker.special(value)
		if handled {
			return
		}
	}

	switch value.Kind() {
	case reflect.Bool:
		tree = value.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		tree = Number(strconv.FormatInt(value.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		tree = Number(strconv.FormatUint(value.Uint(), 10))
	case reflect.Float32:
		tree = formatFloat(value.Float(), 32)
	case reflect.Float64:
		tree = formatFloat(value.Float(), 64)
	case reflect.Complex64, reflect.Complex128:
		tree = strconv.FormatComplex(value.Complex(), 'g', -1, 128)
	case reflect.String:
		tree = value.String()
	case reflect.Interface:
		tree = walker.walk(value.Elem())
	case reflect.Pointer:
		if !walker.visit(reference{kind: reflect.Pointer, typ: value.Type(), ptr: value.Pointer()}) {
			tree = omitted{}
			return
		}
		tree = walker.walk(value.Elem())
	case reflect.Map:
		if !walker.visit(reference{kind: reflect.Map, typ: value.Type(), ptr: value.Pointer()}) {
			tree = omitted{}
			return
		}
		tree = walker.walkMap(value)
	case reflect.Struct:
		object := NewObject()
		walker.walkStruct(value, object)
		tree = object
	case reflect.Slice:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			tree = base64.StdEncoding.EncodeToString(value.Bytes())
			return
		}
		if value.Len() > 0 {
			ref := reference{kind: reflect.Slice, typ: value.Type(), ptr: value.Pointer(), length: value.Len()}
			if !walker.visit(ref) {
				tree = omitted{}
				return
			}
		}
		tree = walker.walkList(value)
	case reflect.Array:
		tree = walker.walkList(value)
	default:
		// chan, func, unsafe pointer
		tree = omitted{}
	}
	return
}

// Handles types with their own JSON meaning. Reports whether value was consumed.
func (walker *detacher) special(value reflect.Value) (tree any, handled bool) {
	handled = true

	switch typed := value.Interface().(type) {
	case Number:
		tree = typed
		if !typed.valid() {
			tree = string(typed)
		}
	case RawJSON:
		tree = RawJSON(append([]byte(nil), typed...))
	case *Object:
		if !walker.visit(reference{kind: reflect.Pointer, typ: value.Type(), ptr: value.Pointer()}) {
			tree = omitted{}
			return
		}
		object := NewObject()
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			child := walker.walk(reflect.ValueOf(pair.Value))
			if _, skip := child.(omitted); skip {
				continue
			}
			object.Set(pair.Key, child)
		}
		tree = object
	case error:
		tree = errorText(typed)
	case json.Marshaler:
		tree = marshalRaw(typed)
	default:
		handled = false
	}
	return
}

func (walker *detacher) walkMap(value reflect.Value) (object *Object) {
	type entry struct {
		key   string
		value reflect.Value
	}

	entries := make([]entry, 0, value.Len())
	iter := value.MapRange()
	for iter.Next() {
		key, ok := mapKey(iter.Key())
		if !ok {
			continue
		}
		entries = append(entries, entry{key: key, value: iter.Value()})
	}

	// Stable output regardless of map iteration order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	object = NewObject()
	for _, e := range entries {
		child := walker.walk(e.value)
		if _, skip := child.(omitted); skip {
			continue
		}
		object.Set(e.key, child)
	}
	return
}

// Adds exported fields of a struct to object, flattening untagged embedded structs
func (walker *detacher) walkStruct(value reflect.Value, object *Object) {
	structType := value.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldValue := value.Field(i)

		name, options := parseTag(field.Tag.Get("json"))
		if name == "-" && options == "" {
			continue
		}

		if field.Anonymous && name == "" {
			embedded := fieldValue
			if embedded.Kind() == reflect.Pointer {
				if embedded.IsNil() {
					continue
				}
				if !walker.visit(reference{kind: reflect.Pointer, typ: embedded.Type(), ptr: embedded.Pointer()}) {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				walker.walkStruct(embedded, object)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		if strings.Contains(options, "omitempty") && fieldValue.IsZero() {
			continue
		}

		child := walker.walk(fieldValue)
		if _, skip := child.(omitted); skip {
			continue
		}
		object.Set(name, child)
	}
}

func (walker *detacher) walkList(value reflect.Value) (list []any) {
	list = make([]any, value.Len())
	for i := range list {
		child := walker.walk(value.Index(i))
		if _, skip := child.(omitted); skip {
			child = nil
		}
		list[i] = child
	}
	return
}

// Converts map key to object key. Only string, integer and text-marshaling keys are representable.
func mapKey(key reflect.Value) (name string, ok bool) {
	if key.Kind() == reflect.String {
		name, ok = key.String(), true
		return
	}
	if key.CanInterface() {
		if marshaler, isText := key.Interface().(encoding.TextMarshaler); isText {
			text, err := marshaler.MarshalText()
			if err != nil {
				return
			}
			name, ok = string(text), true
			return
		}
	}
	switch key.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		name, ok = strconv.FormatInt(key.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		name, ok = strconv.FormatUint(key.Uint(), 10), true
	}
	return
}

// NaN and infinities have no JSON form and become null
func formatFloat(value float64, bits int) (tree any) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}

	format := byte('f')
	abs := math.Abs(value)
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	tree = Number(strconv.FormatFloat(value, format, -1, bits))
	return
}

// Calls a foreign MarshalJSON, dropping the value if it fails, panics or returns invalid JSON
func marshalRaw(marshaler json.Marshaler) (tree any) {
	defer func() {
		if recover() != nil {
			tree = omitted{}
		}
	}()

	encoded, err := marshaler.MarshalJSON()
	if err != nil || fastjson.ValidateBytes(encoded) != nil {
		tree = omitted{}
		return
	}
	tree = RawJSON(encoded)
	return
}

// Error text of a nested error, empty if Error() panics
func errorText(err error) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	text = err.Error()
	return
}

func parseTag(tag string) (name string, options string) {
	name, options, _ = strings.Cut(tag, ",")
	return
}

// Detaches the exported fields of a struct (or pointer to one), ignoring error or
// marshaler behaviour of v itself. Returns nil for any other shape.
func Fields(v any) (object *Object) {
	walker := detacher{seen: make(map[reference]struct{})}

	value := reflect.ValueOf(v)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return
		}
		walker.visit(reference{kind: reflect.Pointer, typ: value.Type(), ptr: value.Pointer()})
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return
	}

	object = NewObject()
	walker.walkStruct(value, object)
	return
}

// Reports whether number is a JSON number literal
func (number Number) valid() (ok bool) {
	var parser fastjson.Parser
	value, err := parser.Parse(string(number))
	if err != nil {
		return
	}
	ok = value.Type() == fastjson.TypeNumber
	return
}
