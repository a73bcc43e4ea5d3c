//go:build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary   = "cpx"
	mainPkg  = "./cmd/cpx"
	coverOut = "coverage.out"
)

// Default target to run when none is specified
var Default = Build

// Build builds the binary
func Build() error {
	fmt.Println("Building " + binary + "...")
	return sh.RunV("go", "build", "-o", binary, mainPkg)
}

// Install installs the binary into GOBIN
func Install() error {
	fmt.Println("Installing " + binary + "...")
	return sh.RunV("go", "install", mainPkg)
}

// Test runs all tests with the race detector and writes a coverage profile
func Test() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "-race", "-coverprofile="+coverOut, "./...")
}

// TestForFail runs the tests shuffled, stopping at the first failure
func TestForFail() error {
	fmt.Println("Running tests for overall pass/fail...")
	return run(context.Background(), "go", "test", "-timeout=60s", "-failfast", "-shuffle=on", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	fmt.Println("Vetting...")
	return sh.RunV("go", "vet", "./...")
}

// Lint lints the codebase
func Lint() error {
	fmt.Println("Linting...")
	return run(context.Background(), "golangci-lint", "run", "./...")
}

// CheckNils checks for nils
func CheckNils() error {
	fmt.Println("Running check for nils...")
	return run(context.Background(), "nilaway", "./...")
}

// Fmt formats the code
func Fmt() error {
	fmt.Println("Formatting code...")
	if err := sh.Run("gofmt", "-s", "-w", "."); err != nil {
		return err
	}

	return sh.Run("goimports", "-w", ".")
}

// Check runs formatting, vet, lint, tests and the nil checker
func Check() {
	mg.SerialDeps(Fmt, Vet, Lint, Test, CheckNils)
}

// Coverage writes an HTML coverage report
func Coverage() error {
	mg.Deps(Test)
	fmt.Println("Generating coverage report...")

	return sh.Run("go", "tool", "cover", "-html="+coverOut, "-o", "coverage.html")
}

// Clean removes build artifacts
func Clean() {
	fmt.Println("Cleaning...")
	for _, artifact := range []string{binary, coverOut, "coverage.html"} {
		_ = os.Remove(artifact)
	}
}

// run executes a command with the caller's stdio attached.
func run(ctx context.Context, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
