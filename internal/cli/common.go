package cli

import (
	"deduplog/pkg/severity"
	"flag"
	"strings"
)

// Options of the log command
type LogOptions struct {
	ConfigPath  string
	Level       string // level every input line is logged at
	Threshold   string // overrides LOG_LEVEL and the config file when set
	PrintStats  bool
	MetricsAddr string
	OutputPath  string // records go to stdout when empty
}

func SetCommon(fs *flag.FlagSet, configPath *string) {
	fs.StringVar(configPath, "c", "", "Path to the JSON configuration file")
	fs.StringVar(configPath, "config", "", "Path to the JSON configuration file")
}

func SetLogArguments(fs *flag.FlagSet, opts *LogOptions) {
	levels := strings.Join(severity.Names, "|")
	fs.StringVar(&opts.Level, "l", severity.Info, "Level each input line is logged at <"+levels+">")
	fs.StringVar(&opts.Level, "level", severity.Info, "Level each input line is logged at <"+levels+">")
	fs.StringVar(&opts.Threshold, "t", "", "Minimum level written, overrides environment and config <"+levels+">")
	fs.StringVar(&opts.Threshold, "threshold", "", "Minimum level written, overrides environment and config <"+levels+">")
	fs.BoolVar(&opts.PrintStats, "s", false, "Print collected metrics as JSON on exit")
	fs.BoolVar(&opts.PrintStats, "stats", false, "Print collected metrics as JSON on exit")
	fs.StringVar(&opts.MetricsAddr, "metrics-listen", "", "Serve Prometheus metrics on this address while running")
	fs.StringVar(&opts.OutputPath, "o", "", "Append records to this file instead of stdout")
	fs.StringVar(&opts.OutputPath, "output", "", "Append records to this file instead of stdout")
}
