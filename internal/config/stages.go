package config

import (
	"fmt"

	"lane_battle/internal/battle"
)

type StageConfig struct {
	ID            int       `yaml:"id"`
	Name          string    `yaml:"name"`
	Length        float64   `yaml:"length"`
	PlayerCastleX float64   `yaml:"player_castle_x"`
	AICastleX     float64   `yaml:"ai_castle_x"`
	AICastle      int       `yaml:"ai_castle"`
	Waves         []WaveDef `yaml:"waves"`
	Note          string    `yaml:"note"`
}

// WaveDef spawns Units for the AI on Frame, counted from 1.
type WaveDef struct {
	Frame int   `yaml:"frame"`
	Units []int `yaml:"units"`
}

// Master resolves the AI castle and wave units against the master tables.
func (s *StageConfig) Master(castles *CastlesConfig, units *UnitsConfig) (battle.StageMaster, error) {
	castle, ok := castles.Find(s.AICastle)
	if !ok {
		return battle.StageMaster{}, fmt.Errorf("stage %d: %w: %d", s.ID, ErrUnknownCastle, s.AICastle)
	}
	waves := make([]battle.Wave, 0, len(s.Waves))
	for _, w := range s.Waves {
		for _, id := range w.Units {
			if _, ok := units.Find(id); !ok {
				return battle.StageMaster{}, fmt.Errorf("stage %d wave @%d: %w: %d", s.ID, w.Frame, ErrUnknownUnit, id)
			}
		}
		waves = append(waves, battle.Wave{Frame: w.Frame, UnitIDs: append([]int(nil), w.Units...)})
	}
	return battle.StageMaster{
		StageID:       s.ID,
		Length:        s.Length,
		PlayerCastleX: s.PlayerCastleX,
		AICastleX:     s.AICastleX,
		AICastle:      castle.Master(),
		Waves:         waves,
	}, nil
}

// LastWaveFrame is the frame of the latest scheduled wave, 0 without waves.
func (s *StageConfig) LastWaveFrame() int {
	last := 0
	for _, w := range s.Waves {
		if w.Frame > last {
			last = w.Frame
		}
	}
	return last
}
