package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"sculpt3d/internal/sculpt"
)

// PrefsFile is the default location of the sculpt preferences, relative to the working directory.
const PrefsFile = ".sculpt_prefs.json"

// Prefs holds brush settings and window options persisted across runs.
type Prefs struct {
	Mode         sculpt.Mode `json:"mode"`
	Radius       float32     `json:"radius"`
	Strength     float32     `json:"strength"`
	MaxUndo      int         `json:"maxUndo"`      // 0 = unbounded
	SpatialIndex bool        `json:"spatialIndex"` // grid lookup for Smooth neighbors
	WindowWidth  int32       `json:"windowWidth"`
	WindowHeight int32       `json:"windowHeight"`
}

func Default() Prefs {
	return Prefs{
		Mode:         sculpt.ModePush,
		Radius:       sculpt.DefaultRadius,
		Strength:     sculpt.DefaultStrength,
		MaxUndo:      100,
		SpatialIndex: true,
		WindowWidth:  1280,
		WindowHeight: 720,
	}
}

// Load reads prefs from path. Fields missing from the file keep their
// defaults. A missing file is not an error; an unreadable or invalid one
// returns Default() together with the error.
func Load(path string) (Prefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read prefs: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("parse prefs: %w", err)
	}
	if p.MaxUndo < 0 {
		p.MaxUndo = 0
	}
	return p, nil
}

// Save writes prefs to path, creating parent directories as needed.
func Save(path string, p Prefs) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("write prefs: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// NewEngine creates a sculpt engine configured from p.
func (p Prefs) NewEngine() *sculpt.Engine {
	e := sculpt.New(p.MaxUndo)
	p.Apply(e)
	return e
}

// Apply copies the brush settings onto an existing engine.
func (p Prefs) Apply(e *sculpt.Engine) {
	mode := p.Mode
	if !mode.Valid() {
		log.Printf("Prefs: unknown mode %d, using %s", int(mode), sculpt.ModePush)
		mode = sculpt.ModePush
	}
	if err := e.SetModeValue(mode); err != nil {
		log.Printf("Prefs: %v", err)
	}
	e.SetBrush(p.Radius, p.Strength)
	e.UseSpatialIndex = p.SpatialIndex
}

// Capture records the engine's current brush settings into p.
func (p *Prefs) Capture(e *sculpt.Engine) {
	p.Mode = e.Mode()
	b := e.Brush()
	p.Radius = b.Radius
	p.Strength = b.Strength
	p.SpatialIndex = e.UseSpatialIndex
}
