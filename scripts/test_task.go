package main

import (
	"os"
	"os/exec"

	"github.com/goyek/goyek/v2"
)

// Test runs the test suite
var Test = goyek.Define(goyek.Task{
	Name:  "test",
	Usage: "Run tests. Use -test-run to filter by pattern",
	Action: func(a *goyek.A) {
		args := []string{"test", "-race"}
		if pattern := GetTestRun(); pattern != "" {
			args = append(args, "-run", pattern)
		}
		args = append(args, "./...")

		cmd := exec.Command("go", args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			a.Fatalf("Tests failed: %v", err)
		}
	},
})
