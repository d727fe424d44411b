// qqevents - QQ bot message event gateway
// License: MIT
//
// Copyright (c) 2026 qqevents contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zhaopengme/qqevents/pkg/config"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

// formatVersion returns the version string with optional git commit
func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func formatBuildInfo() (build string, goVer string) {
	if buildTime != "" {
		build = buildTime
	}
	goVer = goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return
}

func printVersion() {
	fmt.Printf("qqevents %s\n", formatVersion())
	build, goVer := formatBuildInfo()
	if build != "" {
		fmt.Printf("  Build: %s\n", build)
	}
	if goVer != "" {
		fmt.Printf("  Go: %s\n", goVer)
	}
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "gateway":
		gatewayCmd()
	case "version", "--version", "-v":
		printVersion()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Printf("qqevents - QQ bot message event gateway v%s\n\n", version)
	fmt.Println("Usage: qqevents <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  gateway     Connect to QQ and dispatch message events")
	fmt.Println("  version     Show version information")
	fmt.Println()
	fmt.Println("Config is read from $QQEVENTS_CONFIG or ~/.qqevents/config.json")
}

func getConfigPath() string {
	if p := os.Getenv("QQEVENTS_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".qqevents", "config.json")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}
