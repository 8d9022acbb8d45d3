package sim

import (
	"strconv"

	"lane_battle/internal/battle"
)

// Simulator is a headless battle.Delegate. It answers policy questions with
// a Policy, turns every notification into an Event and keeps the tallies a
// Result is built from.
type Simulator struct {
	Policy *Policy
	Emit   func(Event)

	now        func() int
	names      map[int]string
	affordable []int
	cost       float64

	playerSpawns int
	aiSpawns     int
	damageByUnit map[string]int
	gameOver     bool
	won          bool
}

func NewSimulator(length float64, units []battle.UnitMaster, now func() int) *Simulator {
	names := make(map[int]string, len(units))
	for _, u := range units {
		names[u.UnitID] = u.Name
	}
	return &Simulator{
		Policy:       NewPolicy(length, units, now),
		Emit:         func(Event) {},
		now:          now,
		names:        names,
		damageByUnit: map[string]int{},
	}
}

// Affordable is the player roster the engine last reported as affordable.
func (s *Simulator) Affordable() []int { return s.affordable }

func (s *Simulator) Cost() float64 { return s.cost }

func (s *Simulator) GameOver() (over, won bool) { return s.gameOver, s.won }

func (s *Simulator) unitName(unitID int) string {
	if n := s.names[unitID]; n != "" {
		return n
	}
	return strconv.Itoa(unitID)
}

func (s *Simulator) emit(typ string, payload map[string]any) {
	s.Emit(Event{Frame: s.now(), Type: typ, Payload: payload})
}

func (s *Simulator) OnCastleEntitySpawned(c *battle.CastleEntity, x float64) {
	s.emit(EventCastleSpawn, map[string]any{
		"id": c.ID, "castle": c.CastleID, "player": c.IsPlayer, "x": x,
		"hp": c.CurrentHealth, "max_hp": c.MaxHealth,
	})
}

func (s *Simulator) OnUnitEntitySpawned(u *battle.UnitEntity, x float64) {
	if u.IsPlayer {
		s.playerSpawns++
	} else {
		s.aiSpawns++
	}
	s.emit(EventSpawn, map[string]any{
		"id": u.ID, "unit": u.UnitID, "name": s.unitName(u.UnitID), "player": u.IsPlayer, "x": x,
		"hp": u.CurrentHealth, "max_hp": u.MaxHealth,
	})
}

func (s *Simulator) OnAttackableEntityStateChanged(e battle.Attackable, old battle.State) {
	s.Policy.Track(e)
	b := e.Base()
	payload := map[string]any{"id": b.ID, "from": old.String(), "to": b.State.String()}
	if b.EngagedID != 0 {
		payload["target"] = b.EngagedID
	}
	s.emit(EventState, payload)
}

func (s *Simulator) OnAttackableEntityWalked(e battle.Attackable) {
	s.emit(EventWalk, map[string]any{"id": e.Base().ID, "distance": e.Base().Distance})
}

func (s *Simulator) OnAttackableEntityKnockingBack(e battle.Attackable, rate float64) {
	s.emit(EventKnockBack, map[string]any{"id": e.Base().ID, "distance": e.Base().Distance, "rate": rate})
}

func (s *Simulator) OnAttackableEntityHealthUpdated(attacker, target battle.Attackable, from, to, max int) {
	if u, ok := attacker.(*battle.UnitEntity); ok {
		s.damageByUnit[s.unitName(u.UnitID)] += from - to
	}
	s.emit(EventHit, map[string]any{
		"attacker": attacker.Base().ID, "target": target.Base().ID,
		"dmg": from - to, "hp": to, "max_hp": max,
	})
}

func (s *Simulator) OnAvailableCostUpdated(cost, maxCost float64, affordable []int) {
	s.cost = cost
	s.affordable = affordable
	s.emit(EventCost, map[string]any{"cost": cost, "max": maxCost, "affordable": affordable})
}

func (s *Simulator) OnGameOver(isPlayerWon bool) {
	s.gameOver = true
	s.won = isPlayerWon
	s.emit(EventGameOver, map[string]any{"win": isPlayerWon})
}

func (s *Simulator) ShouldEngageAttackableEntity(attacker, target battle.Attackable) bool {
	return s.Policy.ShouldEngage(attacker, target)
}

func (s *Simulator) ShouldDamage(attacker, target battle.Attackable) bool {
	return s.Policy.ShouldDamage(attacker, target)
}

func (s *Simulator) ShouldUnitWalk(u *battle.UnitEntity) bool {
	return s.Policy.ShouldWalk(u)
}

var _ battle.Delegate = (*Simulator)(nil)
