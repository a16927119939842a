package cli

import (
	"bufio"
	"context"
	"deduplog/pkg/logctx"
	"deduplog/pkg/safejson"
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

// Converts one input line into log arguments.
// A JSON array is spread into separate arguments, any other JSON value is one argument,
// and text that is not JSON is logged as a message. Blank lines produce nothing.
func ParseLine(line string) (args []any) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	parser := parserPool.Get()
	defer parserPool.Put(parser)

	value, err := parser.Parse(trimmed)
	if err != nil {
		args = []any{trimmed}
		return
	}

	if value.Type() == fastjson.TypeArray {
		items, _ := value.Array()
		args = make([]any, 0, len(items))
		for _, item := range items {
			args = append(args, fromJSON(item))
		}
		return
	}
	args = []any{fromJSON(value)}
	return
}

// Copies a parsed value out of parser memory. Objects keep their key order.
func fromJSON(value *fastjson.Value) (converted any) {
	switch value.Type() {
	case fastjson.TypeObject:
		object := safejson.NewObject()
		fields, _ := value.Object()
		fields.Visit(func(key []byte, child *fastjson.Value) {
			object.Set(string(key), fromJSON(child))
		})
		converted = object
	case fastjson.TypeArray:
		items, _ := value.Array()
		list := make([]any, len(items))
		for i, item := range items {
			list[i] = fromJSON(item)
		}
		converted = list
	case fastjson.TypeString:
		converted = string(value.GetStringBytes())
	case fastjson.TypeNumber:
		converted = safejson.Number(value.String())
	case fastjson.TypeTrue:
		converted = true
	case fastjson.TypeFalse:
		converted = false
	}
	return
}

// Logs every line of input at level until EOF or ctx is cancelled.
// prompt is written to promptOut before each line when promptOut is not nil.
func ReadAndLog(ctx context.Context, input io.Reader, logger *logctx.Logger, level string, promptOut io.Writer) (lines int, err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if promptOut != nil {
			fmt.Fprint(promptOut, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return
		}

		args := ParseLine(scanner.Text())
		if len(args) == 0 {
			continue
		}
		logger.Log(level, args...)
		lines++
	}

	err = scanner.Err()
	if err != nil {
		err = fmt.Errorf("failed reading input: %w", err)
	}
	return
}
