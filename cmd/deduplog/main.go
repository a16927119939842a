package main

import (
	"context"
	"deduplog/internal/cli"
	"deduplog/internal/global"
	"flag"
	"fmt"
	"os"
	"runtime"
)

func main() {
	global.CmdOpts = cli.DefineOptions()

	args := os.Args
	commandFlags := flag.NewFlagSet(args[0], flag.ExitOnError)

	commandFlags.Usage = func() {
		cli.PrintHelpMenu(os.Stdout, commandFlags, cli.RootCLICommand, global.CmdOpts)
	}
	if len(args) < 2 {
		cli.PrintHelpMenu(os.Stdout, commandFlags, cli.RootCLICommand, global.CmdOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[1:2])

	// Retrieve command and args
	command := args[1]
	args = args[2:]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch command {
	case "log":
		cli.LogMode(ctx, command, args)
	case "version":
		if len(args) > 0 && (args[0] == "--verbose" || args[0] == "-v") {
			fmt.Printf("deduplog %s\n", global.ProgVersion)
			fmt.Printf("Built using %s(%s) for %s on %s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
		} else {
			fmt.Println(global.ProgVersion)
		}
	default:
		cli.PrintHelpMenu(os.Stdout, commandFlags, cli.RootCLICommand, global.CmdOpts)
		os.Exit(1)
	}
}
