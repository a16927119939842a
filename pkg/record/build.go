package record

import (
	"deduplog/internal/global"
	"deduplog/pkg/safejson"
	"strconv"
	"time"
)

// Fixed width UTC timestamp, nanoseconds always 9 digits
const TimeLayout string = "2006-01-02T15:04:05.000000000Z07:00"

// Immutable record template holding the process identity
type Skeleton struct {
	fields *safejson.Object
}

// Creates the template every record starts from
func NewSkeleton(app string) (skeleton Skeleton) {
	skeleton.fields = safejson.NewObject()
	skeleton.fields.Set(global.FieldApp, app)
	skeleton.fields.Set(global.FieldTime, "")
	skeleton.fields.Set(global.FieldLevel, "")
	skeleton.fields.Set(global.FieldMsg, "")
	skeleton.fields.Set(global.FieldErr, "")
	return
}

// Fresh copy of the template, safe to mutate
func (skeleton Skeleton) Clone() (record *Record) {
	record = safejson.NewObject()
	if skeleton.fields == nil {
		return
	}
	for pair := skeleton.fields.Oldest(); pair != nil; pair = pair.Next() {
		record.Set(pair.Key, safejson.Detach(pair.Value))
	}
	return
}

// Merges classified arguments into one flat record.
//
//	first string        -> msg (later strings are dropped)
//	number or sequence  -> data_<n>, n counts only these arguments
//	error               -> err, plus exported fields of the error
//	map or struct       -> entries merged, later keys overwrite earlier ones
//	anything else       -> ignored
//
// Fields left empty ("" or nil) are removed.
func (skeleton Skeleton) Build(level string, values []Value, now time.Time) (record *Record) {
	record = skeleton.Clone()
	record.Set(global.FieldLevel, level)
	record.Set(global.FieldTime, now.UTC().Format(TimeLayout))

	dataIndex := 0
	for _, value := range values {
		switch value.Kind {
		case KindString:
			if current, _ := record.Get(global.FieldMsg); current == "" {
				record.Set(global.FieldMsg, value.Text)
			}
		case KindNumber, KindSequence:
			record.Set(global.FieldData+"_"+strconv.Itoa(dataIndex), value.Data)
			dataIndex++
		case KindErrorLike:
			record.Set(global.FieldErr, value.Text)
			merge(record, value.Fields)
		case KindRecord:
			merge(record, value.Fields)
		}
	}

	clean(record)
	return
}

func merge(record *Record, fields *safejson.Object) {
	if fields == nil {
		return
	}
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		record.Set(pair.Key, pair.Value)
	}
}

// Removes top-level fields holding "" or nil
func clean(record *Record) {
	var empty []string
	for pair := record.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil || pair.Value == "" {
			empty = append(empty, pair.Key)
		}
	}
	for _, key := range empty {
		record.Delete(key)
	}
}
