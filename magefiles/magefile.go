//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "bin/journal-server"

// Build tidies deps, then compiles to ./bin/journal-server.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building server binary...")
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	return sh.Run("go", "build", "-ldflags", "-X main.version="+version, "-o", binary, "./cmd/server")
}

// Run builds then executes the binary.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server...")
	return sh.RunV("./" + binary)
}

// Dev starts the server via go run with debug logging.
func Dev() error {
	fmt.Println(">> Dev mode: go run ./cmd/server ...")
	cmd := exec.Command("go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "JOURNAL_LOG_LEVEL=debug")
	return cmd.Run()
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs the unit tests, skipping browser tests.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// BrowserTest installs the Playwright browsers if needed and runs the
// end-to-end tests.
func BrowserTest() error {
	fmt.Println(">> Installing Playwright browsers...")
	if err := sh.RunV("go", "run", "github.com/playwright-community/playwright-go/cmd/playwright", "install", "--with-deps", "chromium"); err != nil {
		return err
	}
	fmt.Println(">> Running browser tests...")
	return sh.RunV("go", "test", "-count=1", "./internal/adapters/http/browser/...")
}

// Lint runs go vet, then golangci-lint if available.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	os.RemoveAll("bin")
	for _, f := range []string{"journal.db", "journal.db-wal", "journal.db-shm"} {
		os.Remove(f)
	}
	return nil
}

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
