package main

import (
	"os"

	"github.com/PropertyLens/PropertyLens/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
