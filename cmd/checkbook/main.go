package main

import (
	"os"

	"github.com/cleared-dev/checkbook/internal/commands"
)

func main() {
	os.Exit(commands.Execute())
}
