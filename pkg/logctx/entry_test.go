package logctx

import (
	"bytes"
	"context"
	"deduplog/internal/global"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/valyala/fastjson"
)

// Creates a logger writing to a buffer, closed at test end
func newTestLogger(t testing.TB, level string, ttl int64) (logger *Logger, output *bytes.Buffer) {
	t.Helper()

	output = &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.AppName = "Logger"
	cfg.Level = level
	cfg.DedupTTL = ttl
	cfg.Output = output

	logger = NewLogger(global.NSTest, cfg)
	t.Cleanup(logger.Close)
	return
}

// Parses every written line, failing on invalid JSON
func parseLines(t *testing.T, output *bytes.Buffer) (records []*fastjson.Value) {
	t.Helper()

	text := strings.TrimSuffix(output.String(), "\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		value, err := fastjson.Parse(line)
		if err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		records = append(records, value)
	}
	return
}

// Ordered key list of a record
func keysOf(t *testing.T, value *fastjson.Value) (keys []string) {
	t.Helper()

	object, err := value.Object()
	if err != nil {
		t.Fatalf("record is not an object: %v", err)
	}
	object.Visit(func(key []byte, _ *fastjson.Value) {
		keys = append(keys, string(key))
	})
	return
}

func TestLogger_DistinctCalls(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)

	logger.Info("sample log")
	logger.Info(map[string]any{"key": "value"})
	logger.Info([]int{1, 2, 6})
	logger.Info("sample log", []int{1, 2, 6}, map[string]any{"key": "value"})
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(records), output.String())
	}

	expectedKeys := [][]string{
		{"app", "time", "level", "msg"},
		{"app", "time", "level", "key"},
		{"app", "time", "level", "data_0"},
		{"app", "time", "level", "msg", "data_0", "key"},
	}
	for i, rec := range records {
		got := strings.Join(keysOf(t, rec), ",")
		want := strings.Join(expectedKeys[i], ",")
		if got != want {
			t.Fatalf("line %d keys: got %q want %q", i, got, want)
		}
		if string(rec.GetStringBytes("app")) != "Logger" {
			t.Fatalf("line %d app: got %q", i, rec.GetStringBytes("app"))
		}
		if string(rec.GetStringBytes("level")) != "info" {
			t.Fatalf("line %d level: got %q", i, rec.GetStringBytes("level"))
		}
	}

	if got := records[3].Get("data_0").String(); got != "[1,2,6]" {
		t.Fatalf("data_0: got %q want %q", got, "[1,2,6]")
	}
	if got := string(records[3].GetStringBytes("key")); got != "value" {
		t.Fatalf("key: got %q want %q", got, "value")
	}
}

func TestLogger_Threshold(t *testing.T) {
	logger, output := newTestLogger(t, "error", 1000)

	payload := map[string]any{"key": "value"}
	logger.Trace(payload)
	logger.Debug(payload)
	logger.Info(payload)
	logger.Warn(payload)
	logger.Error(payload)
	logger.Log("verbose", payload)
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d:\n%s", len(records), output.String())
	}
	if got := string(records[0].GetStringBytes("level")); got != "error" {
		t.Fatalf("level: got %q want %q", got, "error")
	}
	if logger.Level() != "error" {
		t.Fatalf("threshold: got %q want %q", logger.Level(), "error")
	}
}

func TestLogger_DuplicateSuppression(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)

	logger.Info(map[string]any{"key": "value"})
	logger.Info(map[string]any{"key": "value"})
	logger.Sync()

	if records := parseLines(t, output); len(records) != 1 {
		t.Fatalf("expected 1 line, got %d:\n%s", len(records), output.String())
	}

	stats := logger.Stats()
	if stats.Emitted != 1 || stats.Suppressed != 1 {
		t.Fatalf("stats: got %+v", stats)
	}
	if stats.CacheEntries != 1 {
		t.Fatalf("cache entries: got %d want 1", stats.CacheEntries)
	}
}

func TestLogger_DuplicateAfterTTL(t *testing.T) {
	logger, output := newTestLogger(t, "info", 50)

	logger.Info(map[string]any{"key": "value"})
	time.Sleep(80 * time.Millisecond)
	logger.Info(map[string]any{"key": "value"})
	logger.Sync()

	if records := parseLines(t, output); len(records) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(records), output.String())
	}
}

func TestLogger_DedupDisabled(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)
	logger.SetCacheTTL(global.DisabledDedupTTL)

	payload := map[string]any{"key": "value"}
	logger.Info(payload)
	logger.Info(payload)
	logger.Error(payload)
	logger.Error(payload)
	logger.Sync()

	if records := parseLines(t, output); len(records) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(records), output.String())
	}
	if stats := logger.Stats(); stats.CacheEntries != 0 || stats.CacheTTL != -1 {
		t.Fatalf("disabled cache should stay empty, got %+v", stats)
	}
}

func TestLogger_ResetCache(t *testing.T) {
	logger, output := newTestLogger(t, "info", 0)

	logger.Info("again")
	logger.Info("again")
	logger.ResetCache()
	logger.Info("again")
	logger.Sync()

	if records := parseLines(t, output); len(records) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(records), output.String())
	}
}

func TestLogger_BooleanOnly(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)

	logger.Info(true)
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d", len(records))
	}
	got := strings.Join(keysOf(t, records[0]), ",")
	if got != "app,time,level" {
		t.Fatalf("keys: got %q want %q", got, "app,time,level")
	}
}

func TestLogger_NoEmptyFields(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)

	logger.Info("", nil, map[string]any{"blank": "", "none": nil, "kept": 0})
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d", len(records))
	}
	got := strings.Join(keysOf(t, records[0]), ",")
	if got != "app,time,level,kept" {
		t.Fatalf("keys: got %q want %q", got, "app,time,level,kept")
	}
}

func TestLogger_ArgumentMutationAfterCall(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)

	payload := map[string]any{"key": "value"}
	list := []int{1, 2, 3}
	logger.Info(payload, list)
	payload["key"] = "changed"
	payload["extra"] = true
	list[0] = 99
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d", len(records))
	}
	if got := string(records[0].GetStringBytes("key")); got != "value" {
		t.Fatalf("key: got %q want %q", got, "value")
	}
	if records[0].Exists("extra") {
		t.Fatalf("field added after the call leaked into record")
	}
	if got := records[0].Get("data_0").String(); got != "[1,2,3]" {
		t.Fatalf("data_0: got %q want %q", got, "[1,2,3]")
	}
}

func TestLogger_CircularArgument(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)

	payload := map[string]any{"name": "loop"}
	payload["self"] = payload
	type node struct {
		Name string
		Next *node
	}
	ring := &node{Name: "a"}
	ring.Next = &node{Name: "b", Next: ring}

	logger.Info("cycles", payload, ring)
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d", len(records))
	}
	if records[0].Exists("self") {
		t.Fatalf("cyclic edge should be omitted: %s", records[0])
	}
	if got := string(records[0].GetStringBytes("Next", "Name")); got != "b" {
		t.Fatalf("Next.Name: got %q want %q", got, "b")
	}
	if records[0].Exists("Next", "Next") {
		t.Fatalf("cyclic pointer should be omitted: %s", records[0])
	}
}

type panicky struct{}

func (panicky) Error() string { panic("broken error") }

type explosiveText struct{}

func (explosiveText) MarshalJSON() ([]byte, error) { panic("broken marshaler") }

func TestLogger_NeverPanics(t *testing.T) {
	logger, output := newTestLogger(t, "info", -1)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("entry point panicked: %v", r)
		}
	}()

	logger.Info(panicky{})
	logger.Info("marshaler", explosiveText{})
	logger.Info(func() {}, make(chan int))
	logger.Info(nil)
	logger.Info()
	logger.Sync()

	for _, rec := range parseLines(t, output) {
		if !rec.Exists("app") {
			t.Fatalf("record without app: %s", rec)
		}
	}
}

func TestLogger_ErrorArgument(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)

	logger.Error("request failed", errors.New("connection reset"))
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d", len(records))
	}
	if got := string(records[0].GetStringBytes("msg")); got != "request failed" {
		t.Fatalf("msg: got %q want %q", got, "request failed")
	}
	if got := string(records[0].GetStringBytes("err")); !strings.HasPrefix(got, "connection reset") {
		t.Fatalf("err: got %q", got)
	}
}

func TestLogger_FIFOOrder(t *testing.T) {
	logger, output := newTestLogger(t, "info", 1000)

	const count = 200
	for i := 0; i < count; i++ {
		logger.Info("ordered", i)
	}
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != count {
		t.Fatalf("expected %d lines, got %d", count, len(records))
	}
	for i, rec := range records {
		if got := rec.GetInt("data_0"); got != i {
			t.Fatalf("line %d: got data_0 %d", i, got)
		}
	}
}

func TestLogger_Concurrent(t *testing.T) {
	logger, output := newTestLogger(t, "info", 0)

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				logger.Info("worker", p, i)
				logger.Info("shared")
			}
		}(p)
	}
	wg.Wait()
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != producers*perProducer+1 {
		t.Fatalf("expected %d lines, got %d", producers*perProducer+1, len(records))
	}
	stats := logger.Stats()
	if stats.Suppressed != producers*perProducer-1 {
		t.Fatalf("suppressed: got %d want %d", stats.Suppressed, producers*perProducer-1)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestLogger_SinkErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = failingWriter{}
	logger := NewLogger(global.NSTest, cfg)
	defer logger.Close()

	logger.Info("first")
	logger.Info("second")
	logger.Sync()

	stats := logger.Stats()
	if stats.SinkErrors != 2 || stats.Emitted != 0 {
		t.Fatalf("stats: got %+v", stats)
	}
}

func TestLogger_CloseDrainsQueue(t *testing.T) {
	output := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Output = output
	logger := NewLogger(global.NSTest, cfg)

	for i := 0; i < 100; i++ {
		logger.Info("drain", i)
	}
	logger.Close()

	if got := strings.Count(output.String(), "\n"); got != 100 {
		t.Fatalf("expected 100 lines after close, got %d", got)
	}

	// Calls after close are dropped
	logger.Info("late")
	logger.Sync()
	logger.Close()
	if stats := logger.Stats(); stats.Dropped != 1 {
		t.Fatalf("dropped: got %d want 1", stats.Dropped)
	}
}

func TestContextHelpers(t *testing.T) {
	output := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Output = output
	cfg.AppName = "CtxApp"

	ctx := New(context.Background(), global.NSTest, cfg)
	logger := GetLogger(ctx)
	if logger == nil {
		t.Fatal("logger not found in context")
	}
	defer logger.Close()

	Info(ctx, "from context")
	Debug(ctx, "below threshold")
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d", len(records))
	}
	if got := string(records[0].GetStringBytes("app")); got != "CtxApp" {
		t.Fatalf("app: got %q want %q", got, "CtxApp")
	}

	// No logger attached
	Error(context.Background(), "nowhere")
	if GetLogger(context.Background()) != nil {
		t.Fatal("expected nil logger")
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv(global.EnvAppName, "EnvApp")
	t.Setenv(global.EnvLogLevel, "bogus")
	t.Setenv(global.EnvDedupTTL, "-1")

	output := &bytes.Buffer{}
	cfg := ConfigFromEnvironment(output)
	if cfg.AppName != "EnvApp" || cfg.Level != global.DefaultLevel || cfg.DedupTTL != -1 {
		t.Fatalf("config: got %+v", cfg)
	}

	logger := NewLogger(global.NSTest, cfg)
	defer logger.Close()
	logger.Info("x")
	logger.Info("x")
	logger.Sync()
	if got := strings.Count(output.String(), "\n"); got != 2 {
		t.Fatalf("expected 2 lines with dedup disabled, got %d", got)
	}
}

func TestLogger_KindsDoNotCollide(t *testing.T) {
	logger, output := newTestLogger(t, "info", 0)

	logger.Info(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))
	logger.Info("2020-01-02T03:04:05Z")
	logger.Info(errors.New("x"))
	logger.Info(map[string]any{"err": "x", "k": 1})
	logger.Info(map[string]any{"err": "x"})
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(records), output.String())
	}
	if got := string(records[1].GetStringBytes("msg")); got != "2020-01-02T03:04:05Z" {
		t.Fatalf("msg: got %q", got)
	}
}

func TestLogger_LevelNormalized(t *testing.T) {
	logger, output := newTestLogger(t, "info", 0)

	logger.Log("INFO", "mixed case")
	logger.Log(" info ", "mixed case")
	logger.Info("mixed case")
	logger.Sync()

	records := parseLines(t, output)
	if len(records) != 1 {
		t.Fatalf("expected 1 line, got %d:\n%s", len(records), output.String())
	}
	if got := string(records[0].GetStringBytes("level")); got != "info" {
		t.Fatalf("level: got %q want %q", got, "info")
	}
}

func TestLogger_NilReceiver(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("nil logger panicked: %v", r)
		}
	}()

	var logger *Logger
	logger.Info("nowhere")
	logger.Log("error", "nowhere")
	LogEvent(WithLogger(context.Background(), logger), "warn", "nowhere")
}

func TestLogger_StatsIdentity(t *testing.T) {
	logger, _ := newTestLogger(t, "info", 1000)

	time.Sleep(5 * time.Millisecond)
	stats := logger.Stats()
	if stats.ID != global.NSTest {
		t.Fatalf("id: got %q want %q", stats.ID, global.NSTest)
	}
	if stats.Uptime < 5*time.Millisecond {
		t.Fatalf("uptime too small: %v", stats.Uptime)
	}
}
