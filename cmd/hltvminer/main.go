package main

import (
	"hltvminer/cmd/hltvminer/commands"
)

func main() {
	ctx := commands.SignalContext()
	commands.ExecuteContext(ctx)
}
