//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles both the sipmsim and sipmdebug executables into ./bin.
func Build() error {
	mg.Deps(BuildSim)
	mg.Deps(BuildDebug)
	fmt.Println("Compilation finished")
	return nil
}

func BuildSim() error {
	fmt.Println("Building sipmsim executable...")
	cmd := exec.Command("go", "build", "-o", "./bin/sipmsim", "./cmd/sipmsim")
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func BuildDebug() error {
	fmt.Println("Building sipmdebug executable...")
	cmd := exec.Command("go", "build", "-o", "./bin/sipmdebug", "./cmd/sipmdebug")
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Test runs the full test suite.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
