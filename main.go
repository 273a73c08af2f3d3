package main

import (
	"os"

	"cinema-booking-cli/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(cmd.Execute(version, commit))
}
