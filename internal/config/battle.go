package config

import (
	"fmt"

	"lane_battle/internal/battle"
)

// Battle is the master data needed to set up one stage.
type Battle struct {
	Units   *UnitsConfig
	Castles *CastlesConfig
	Stage   *StageConfig
}

func LoadBattle(dir string, stageID int) (*Battle, error) {
	uc, cc, err := LoadAll(dir)
	if err != nil {
		return nil, err
	}
	sc, err := LoadStage(dir, stageID)
	if err != nil {
		return nil, err
	}
	return &Battle{Units: uc, Castles: cc, Stage: sc}, nil
}

// InitParams resolves the player's roster and castle from s. The delegate
// can be left nil and set by the caller.
func (b *Battle) InitParams(d battle.Delegate, s *Settings) (battle.InitParams, error) {
	stage, err := b.Stage.Master(b.Castles, b.Units)
	if err != nil {
		return battle.InitParams{}, err
	}
	castle, ok := b.Castles.Find(s.Player.Castle)
	if !ok {
		return battle.InitParams{}, fmt.Errorf("player castle: %w: %d", ErrUnknownCastle, s.Player.Castle)
	}
	for _, id := range s.Player.Units {
		if _, ok := b.Units.Find(id); !ok {
			return battle.InitParams{}, fmt.Errorf("player roster: %w: %d", ErrUnknownUnit, id)
		}
	}
	return battle.InitParams{
		Delegate:    d,
		Stage:       stage,
		UnitMasters: b.Units.Masters(),
		Player: battle.PlayerParams{
			UnitIDs: append([]int(nil), s.Player.Units...),
			Castle:  castle.Master(),
		},
		Config: s.BattleConfig(),
	}, nil
}
