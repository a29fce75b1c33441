//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the exemplar binary into ./bin
func Build() error {
	fmt.Println("Building exemplar...")
	return sh.RunV("go", "build", "-o", "bin/exemplar", "./cmd/exemplar")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over the module
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("bin")
}
