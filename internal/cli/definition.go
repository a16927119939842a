package cli

import "deduplog/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	root := &global.CommandSet{
		Description:     "Deduplicating Structured Logger (deduplog)",
		FullDescription: "  Writes one JSON record per log call, suppressing repeats within a time window",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	root.ChildCommands["log"] = &global.CommandSet{
		CommandName:     "log",
		UsageOption:     "[options] < input",
		Description:     "Log Standard Input",
		FullDescription: "Reads one JSON value per line from stdin and logs it (arrays are spread into separate arguments, other text is logged as a message)",
	}

	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
