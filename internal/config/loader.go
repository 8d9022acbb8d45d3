package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownStage  = errors.New("unknown stage")
	ErrUnknownCastle = errors.New("unknown castle")
	ErrUnknownUnit   = errors.New("unknown unit")
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadAll reads the unit and castle master tables from dir.
func LoadAll(dir string) (*UnitsConfig, *CastlesConfig, error) {
	var uc UnitsConfig
	var cc CastlesConfig
	if err := loadYAML(filepath.Join(dir, "units.yaml"), &uc); err != nil {
		return nil, nil, err
	}
	if err := loadYAML(filepath.Join(dir, "castles.yaml"), &cc); err != nil {
		return nil, nil, err
	}
	return &uc, &cc, nil
}

func StagePath(dir string, id int) string {
	return filepath.Join(dir, "stages", fmt.Sprintf("stage%03d.yaml", id))
}

func LoadStage(dir string, id int) (*StageConfig, error) {
	var sc StageConfig
	if err := loadYAML(StagePath(dir, id), &sc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownStage, id)
		}
		return nil, err
	}
	if sc.ID == 0 {
		sc.ID = id
	}
	return &sc, nil
}
