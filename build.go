//go:build ignore

// build.go - bikeshare build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, cli, server, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "github.com/Jtofah/pdsnd-github"

var (
	distDir = "dist"

	// key = source dir under cmd/, value = output binary name
	executables = map[string]string{
		"bikeshare":        "bikeshare",
		"bikeshare-server": "bikeshare-server",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "all":
		buildExecutable("bikeshare", *verbose)
		buildExecutable("bikeshare-server", *verbose)
	case "cli":
		buildExecutable("bikeshare", *verbose)
	case "server":
		buildExecutable("bikeshare-server", *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Printf("%s=== bikeshare build (%s/%s) ===%s\n", colorCyan, runtime.GOOS, runtime.GOARCH, colorReset)
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorCyan, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[OK]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARN]%s %s\n", colorYellow, colorReset, msg)
}

// gitCommit returns the short HEAD hash, or "unknown" outside a repository
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func buildExecutable(name string, verbose bool) {
	binName, ok := executables[name]
	if !ok {
		printError(fmt.Sprintf("Unknown executable: %s", name))
		os.Exit(1)
	}
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s...", name))

	outputPath := filepath.Join(distDir, binName)
	ldflags := fmt.Sprintf("-s -w -X %[1]s/pkg/contracts.BuildTime=%[2]s -X %[1]s/pkg/contracts.GitCommit=%[3]s",
		module, time.Now().UTC().Format(time.RFC3339), gitCommit())

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	cmd := exec.Command("go", args...)
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, float64(info.Size())/1024/1024))
	}
}

func runTests(verbose bool) {
	printInfo("Running tests...")

	args := []string{"test", "-race", "./..."}
	if verbose {
		args = append(args, "-v")
	}

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError("Tests failed")
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean(verbose bool) {
	printInfo("Cleaning build artifacts...")

	for _, dir := range []string{distDir, "logs"} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if verbose {
			fmt.Printf("Removing %s\n", dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			printWarning(fmt.Sprintf("Failed to remove %s: %v", dir, err))
		}
	}
	printSuccess("Clean complete")
}

func showHelp() {
	fmt.Println(`Usage: go run build.go [-target=TARGET] [-v]

Targets:
  all      Build bikeshare and bikeshare-server (default)
  cli      Build the terminal tool
  server   Build the HTTP API server
  test     Run all tests with the race detector
  clean    Remove dist/ and logs/`)
}
