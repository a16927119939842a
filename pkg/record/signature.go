package record

import (
	"deduplog/internal/global"
	"deduplog/pkg/safejson"
	"strings"
)

// Canonical dedup signature of a call: level, colon, then every raw argument
// as kind=JSON in call order, comma separated.
// Strings are quoted, so ("a", "b") and ("a,b") never collide, and the kind
// keeps a string apart from a time.Time or map rendering to the same JSON.
func Signature(level string, values []Value) (signature string) {
	var builder strings.Builder
	builder.WriteString(level)
	builder.WriteByte(':')

	for i, value := range values {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(value.Kind.String())
		builder.WriteByte('=')
		builder.WriteString(value.Encode())
	}

	signature = builder.String()
	return
}

// JSON form of the argument as it was passed, before any merge
func (value Value) Encode() (encoded string) {
	switch value.Kind {
	case KindString:
		encoded = safejson.String(value.Text)
	case KindErrorLike:
		object := safejson.NewObject()
		object.Set(global.FieldErr, value.Text)
		merge(object, value.Fields)
		encoded = safejson.String(object)
	case KindRecord:
		encoded = safejson.String(value.Fields)
	default:
		encoded = safejson.String(value.Data)
	}
	return
}
