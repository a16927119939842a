package severity

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		threshold string
	}{
		{name: "exact", input: "error", threshold: Error},
		{name: "upper case", input: "WARN", threshold: Warn},
		{name: "padded", input: "  trace ", threshold: Trace},
		{name: "empty falls back", input: "", threshold: Info},
		{name: "unknown falls back", input: "voodoo", threshold: Info},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Parse(tt.input)
			if got := config.Threshold(); got != tt.threshold {
				t.Fatalf("threshold mismatch: got %q want %q", got, tt.threshold)
			}
		})
	}
}

func TestShouldProcess(t *testing.T) {
	tests := []struct {
		threshold string
		passing   []string
	}{
		{threshold: Trace, passing: []string{Trace, Debug, Info, Warn, Error}},
		{threshold: Info, passing: []string{Info, Warn, Error}},
		{threshold: Error, passing: []string{Error}},
		{threshold: "voodoo", passing: []string{Info, Warn, Error}},
	}

	for _, tt := range tests {
		t.Run(tt.threshold, func(t *testing.T) {
			config := Parse(tt.threshold)

			var got []string
			for _, level := range Names {
				if config.ShouldProcess(level) {
					got = append(got, level)
				}
			}

			if len(got) != len(tt.passing) {
				t.Fatalf("expected %d passing levels, got %v", len(tt.passing), got)
			}
			for i := range got {
				if got[i] != tt.passing[i] {
					t.Fatalf("level %d mismatch: got %q want %q", i, got[i], tt.passing[i])
				}
			}
		})
	}
}

func TestShouldProcess_UnknownLevel(t *testing.T) {
	config := Parse(Trace)
	if config.ShouldProcess("fatal") {
		t.Fatal("unknown level must never be processed")
	}
}
