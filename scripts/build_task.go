package main

import (
	"os"
	"os/exec"

	"github.com/goyek/goyek/v2"
)

// Build compiles the scanrun binary into bin/
var Build = goyek.Define(goyek.Task{
	Name:  "build",
	Usage: "Build the scanrun binary",
	Action: func(a *goyek.A) {
		cmd := exec.Command("go", "build", "-o", "bin/scanrun", ".")
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			a.Fatalf("Failed to build: %v", err)
		}
	},
})
