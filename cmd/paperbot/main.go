package main

import (
	"os"

	"github.com/snoopy0103/upbit-ml-paperbot/cmd/paperbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
