// Normalization of variadic log arguments into one flat record
package record

import (
	"deduplog/pkg/safejson"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Implemented by errors created or wrapped with github.com/pkg/errors
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Sorts a raw argument into its kind and copies its data out of caller memory
func Classify(arg any) (value Value) {
	if arg == nil {
		return
	}
	// Everything falls back to Other, detached so it still feeds the signature
	defer func() {
		if value.Kind == KindOther {
			value.Data = safejson.Detach(arg)
		}
	}()

	switch typed := arg.(type) {
	case error:
		value = classifyError(typed)
		return
	case safejson.Number:
		value.Kind = KindNumber
		value.Data = typed
		return
	case *safejson.Object:
		fields, isObject := safejson.Detach(typed).(*safejson.Object)
		if isObject {
			value.Kind = KindRecord
			value.Fields = fields
		}
		return
	}

	raw := reflect.ValueOf(arg)
	for raw.Kind() == reflect.Pointer || raw.Kind() == reflect.Interface {
		if raw.IsNil() {
			return
		}
		raw = raw.Elem()
	}

	switch raw.Kind() {
	case reflect.String:
		value.Kind = KindString
		value.Text = raw.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		value.Kind = KindNumber
		value.Data = safejson.Detach(raw.Interface())
	case reflect.Slice, reflect.Array:
		value.Kind = KindSequence
		value.Data = safejson.Detach(raw.Interface())
	case reflect.Map, reflect.Struct:
		// Types with their own JSON form (time.Time and friends) have no fields to merge
		if _, custom := arg.(json.Marshaler); custom {
			return
		}
		if _, custom := raw.Interface().(json.Marshaler); custom {
			return
		}
		fields, isObject := safejson.Detach(arg).(*safejson.Object)
		if !isObject {
			return
		}
		value.Kind = KindRecord
		value.Fields = fields
	}
	return
}

func classifyError(err error) (value Value) {
	value.Kind = KindErrorLike
	value.Text = errorStack(err)

	// Exported fields of the concrete error type are supplementary data
	fields := safejson.Fields(err)
	if fields != nil && fields.Len() > 0 {
		value.Fields = fields
	}
	return
}

// Error message followed by the innermost recorded stack trace, if any error in the chain has one
func errorStack(err error) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	text = err.Error()

	var deepest stackTracer
	for current := err; current != nil; current = errors.Unwrap(current) {
		if tracer, ok := current.(stackTracer); ok {
			deepest = tracer
		}
	}
	if deepest != nil {
		text += fmt.Sprintf("%+v", deepest.StackTrace())
	}
	return
}
