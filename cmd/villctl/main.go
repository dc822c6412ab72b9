package main

import (
	"os"

	"villfinder-backend/cmd/villctl/tool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
