package record

import "deduplog/pkg/safejson"

// Shape of a log call argument, decides how it lands in the record
type Kind uint8

const (
	KindOther Kind = iota
	KindString
	KindNumber
	KindSequence
	KindErrorLike
	KindRecord
)

// Classified and detached log call argument.
// Holds no references to caller memory.
type Value struct {
	Kind   Kind
	Text   string           // String: the text, ErrorLike: message and stack
	Data   any              // Number, Sequence, Other: detached JSON tree
	Fields *safejson.Object // Record, ErrorLike: entries merged into the record
}

// Flat structured log record, keys in insertion order
type Record = safejson.Object

func (kind Kind) String() (name string) {
	switch kind {
	case KindString:
		name = "string"
	case KindNumber:
		name = "number"
	case KindSequence:
		name = "sequence"
	case KindErrorLike:
		name = "error"
	case KindRecord:
		name = "record"
	default:
		name = "other"
	}
	return
}
