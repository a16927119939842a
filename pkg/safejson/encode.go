package safejson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Streams a detached tree as compact JSON
type encoder struct {
	out     bytes.Buffer
	scratch bytes.Buffer
	quoter  *json.Encoder
}

func newEncoder() (enc *encoder) {
	enc = &encoder{}
	enc.quoter = json.NewEncoder(&enc.scratch)
	enc.quoter.SetEscapeHTML(false)
	return
}

// Serializes any value to compact single-line JSON. Circular references are dropped, never followed.
func Marshal(v any) (encoded []byte, err error) {
	enc := newEncoder()
	err = enc.value(Detach(v))
	if err != nil {
		err = fmt.Errorf("failed encoding value: %w", err)
		return
	}
	encoded = enc.out.Bytes()
	return
}

// Marshal variant for call sites that cannot handle errors, yields "null" on failure
func String(v any) (text string) {
	encoded, err := Marshal(v)
	if err != nil {
		text = "null"
		return
	}
	text = string(encoded)
	return
}

func (enc *encoder) value(tree any) (err error) {
	switch typed := tree.(type) {
	case nil:
		enc.out.WriteString("null")
	case bool:
		if typed {
			enc.out.WriteString("true")
		} else {
			enc.out.WriteString("false")
		}
	case string:
		err = enc.str(typed)
	case Number:
		enc.out.WriteString(string(typed))
	case RawJSON:
		// Foreign marshalers may emit indentation, keep output on one line
		err = json.Compact(&enc.out, typed)
	case []any:
		enc.out.WriteByte('[')
		for i, item := range typed {
			if i > 0 {
				enc.out.WriteByte(',')
			}
			err = enc.value(item)
			if err != nil {
				return
			}
		}
		enc.out.WriteByte(']')
	case *Object:
		enc.out.WriteByte('{')
		first := true
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				enc.out.WriteByte(',')
			}
			first = false

			err = enc.str(pair.Key)
			if err != nil {
				return
			}
			enc.out.WriteByte(':')
			err = enc.value(pair.Value)
			if err != nil {
				return
			}
		}
		enc.out.WriteByte('}')
	default:
		err = fmt.Errorf("unsupported detached type %T", tree)
	}
	return
}

func (enc *encoder) str(text string) (err error) {
	enc.scratch.Reset()
	err = enc.quoter.Encode(text)
	if err != nil {
		return
	}
	enc.out.Write(bytes.TrimSuffix(enc.scratch.Bytes(), []byte{'\n'}))
	return
}
