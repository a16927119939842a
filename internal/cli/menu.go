package cli

import (
	"deduplog/internal/global"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
)

const (
	RootCLICommand  string = "root"
	helpMenuTrailer string = `
Environment:
  APP_NAME            Application name stamped on every record
  LOG_LEVEL           Minimum level written
  LOG_DEDUP_TTL_MS    Duplicate suppression window, -1 disables
  LOG_DEDUP_CAPACITY  Maximum remembered signatures
`
)

// Full standardized help menu (wraps option printer as well)
func PrintHelpMenu(out io.Writer, fs *flag.FlagSet, command string, rootCmd *global.CommandSet) {
	curCmdSet := rootCmd
	if command != "" && command != RootCLICommand {
		cmd, ok := rootCmd.ChildCommands[command]
		if !ok {
			fmt.Fprintf(out, "Unknown command: %s\n", command)
			return
		}
		curCmdSet = cmd
	}

	usageParts := []string{os.Args[0]}
	if curCmdSet != rootCmd {
		usageParts = append(usageParts, curCmdSet.CommandName)
	}
	if len(curCmdSet.ChildCommands) > 0 {
		usageParts = append(usageParts, "[subcommand]")
	}
	if curCmdSet.UsageOption != "" {
		usageParts = append(usageParts, curCmdSet.UsageOption)
	}
	fmt.Fprintf(out, "Usage: %s\n\n", strings.Join(usageParts, " "))

	if curCmdSet == rootCmd {
		fmt.Fprintln(out, curCmdSet.Description)
		fmt.Fprintln(out, curCmdSet.FullDescription)
		fmt.Fprintln(out)
	} else if curCmdSet.FullDescription != "" {
		fmt.Fprintln(out, "  Description:")
		fmt.Fprintf(out, "    %s\n\n", curCmdSet.FullDescription)
	}

	if len(curCmdSet.ChildCommands) > 0 {
		names := make([]string, 0, len(curCmdSet.ChildCommands))
		for name := range curCmdSet.ChildCommands {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(out, "  Subcommands:")
		table := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, name := range names {
			fmt.Fprintf(table, "    %s\t- %s\n", name, curCmdSet.ChildCommands[name].Description)
		}
		table.Flush()
		fmt.Fprintln(out)
	}

	printFlagOptions(out, fs)

	if curCmdSet == rootCmd || curCmdSet.CommandName == "log" {
		fmt.Fprint(out, helpMenuTrailer)
	}
}

// Groups short and long spellings of the same option on one line
func printFlagOptions(out io.Writer, fs *flag.FlagSet) {
	type option struct {
		names      []string
		usage      string
		defaultVal string
	}

	byUsage := make(map[string]*option)
	var order []*option
	fs.VisitAll(func(arg *flag.Flag) {
		prefix := "--"
		if len(arg.Name) == 1 {
			prefix = "-"
		}

		opt, seen := byUsage[arg.Usage]
		if !seen {
			opt = &option{usage: arg.Usage, defaultVal: arg.DefValue}
			byUsage[arg.Usage] = opt
			order = append(order, opt)
		}
		opt.names = append(opt.names, prefix+arg.Name)
	})
	if len(order) == 0 {
		return
	}

	for _, opt := range order {
		// Short spelling first
		sort.Slice(opt.names, func(a, b int) bool {
			return len(opt.names[a]) < len(opt.names[b])
		})
	}
	sort.Slice(order, func(a, b int) bool {
		return strings.TrimLeft(order[a].names[0], "-") < strings.TrimLeft(order[b].names[0], "-")
	})

	fmt.Fprintln(out, "  Options:")
	table := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, opt := range order {
		desc := opt.usage
		if opt.defaultVal != "" && opt.defaultVal != "false" && opt.defaultVal != "0" {
			desc += fmt.Sprintf(" [default: %s]", opt.defaultVal)
		}
		fmt.Fprintf(table, "    %s\t%s\n", strings.Join(opt.names, ", "), desc)
	}
	table.Flush()
}
