package main

import (
	"os"

	"aiready-action/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
