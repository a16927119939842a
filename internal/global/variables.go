package global

var (
	CmdOpts *CommandSet // Holds CLI command definition
)
