package main

import (
	"lunchwatch/cmd/lunchwatch/commands"
	"lunchwatch/lib/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
