package main

import (
	"os"

	"quizshow-scoreboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
