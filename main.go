package main

import (
	"os"

	"github.com/taskward/taskward/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
