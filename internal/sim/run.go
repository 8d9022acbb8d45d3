package sim

import (
	"github.com/google/uuid"

	"lane_battle/internal/battle"
	"lane_battle/internal/util"
)

const DefaultMaxFrames = 18000

type Params struct {
	// Init is the battle setup; its Delegate is replaced by the simulator.
	Init        battle.InitParams
	Seed        int64
	MaxFrames   int
	SpawnChance float64
	Record      bool
}

// RunSingle plays one battle to the end or until MaxFrames elapse.
func RunSingle(p Params) (Result, error) {
	maxFrames := p.MaxFrames
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}

	logic := battle.New()
	s := NewSimulator(p.Init.Stage.Length, p.Init.UnitMasters, logic.Frame)
	var events []Event
	if p.Record {
		s.Emit = func(ev Event) { events = append(events, ev) }
	}

	setup := p.Init
	setup.Delegate = s
	if err := logic.Init(setup); err != nil {
		return Result{}, err
	}

	bot := NewBot(util.New(p.Seed), p.SpawnChance)
	for !logic.IsGameOver() && logic.Frame() < maxFrames {
		if id, ok := bot.Pick(s.Affordable()); ok {
			logic.RequestSpawnPlayer(id)
		}
		logic.Update()
	}
	// A castle that fell on the last frame is reported on the next update.
	if !logic.IsGameOver() && castleDown(logic) {
		logic.Update()
	}

	_, won := s.GameOver()
	st := logic.Stats()
	res := Result{
		RunID:              uuid.NewString(),
		Stage:              p.Init.Stage.StageID,
		Seed:               p.Seed,
		Win:                won,
		Finished:           logic.IsGameOver(),
		Frames:             logic.Frame(),
		PlayerSpawns:       s.playerSpawns,
		AISpawns:           s.aiSpawns,
		DroppedSpawns:      st.DroppedSpawns,
		MissingMaster:      st.MissingMaster,
		PlayerCastleHealth: logic.Castle(true).CurrentHealth,
		AICastleHealth:     logic.Castle(false).CurrentHealth,
		DamageByUnit:       s.damageByUnit,
	}
	if p.Record {
		res.Events = events
	}
	return res, nil
}

func castleDown(l *battle.Logic) bool {
	return l.Castle(true).CurrentHealth < 1 || l.Castle(false).CurrentHealth < 1
}
