package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"sculpt3d/internal/config"
	"sculpt3d/internal/game"
)

func main() {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	prefsPath := config.PrefsFile
	if len(os.Args) > 1 {
		prefsPath = os.Args[1]
	}
	prefs, err := config.Load(prefsPath)
	if err != nil {
		log.Printf("Using default prefs: %v", err)
	}

	game.New(prefs, prefsPath).Run()
}
