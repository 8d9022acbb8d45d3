package sim

import "lane_battle/internal/battle"

// Policy answers the engine's yes/no questions the way the lane renderer
// does: units engage what is inside their reach, hit on a fixed frame of
// each attack cycle and walk until they reach the far end of the lane.
type Policy struct {
	Length    float64
	masters   map[int]battle.UnitMaster
	engagedAt map[int]int
	now       func() int
}

func NewPolicy(length float64, units []battle.UnitMaster, now func() int) *Policy {
	m := make(map[int]battle.UnitMaster, len(units))
	for _, u := range units {
		m[u.UnitID] = u
	}
	return &Policy{Length: length, masters: m, engagedAt: map[int]int{}, now: now}
}

// Gap is the free lane between attacker and target. Units measure their
// distance from their own castle, castles sit at distance 0.
func (p *Policy) Gap(attacker, target battle.Attackable) float64 {
	return p.Length - attacker.Base().Distance - target.Base().Distance
}

func (p *Policy) master(e battle.Attackable) (battle.UnitMaster, bool) {
	u, ok := e.(*battle.UnitEntity)
	if !ok {
		return battle.UnitMaster{}, false
	}
	m, ok := p.masters[u.UnitID]
	return m, ok
}

func (p *Policy) ShouldEngage(attacker, target battle.Attackable) bool {
	m, ok := p.master(attacker)
	if !ok || target.Base().CurrentHealth < 1 {
		return false
	}
	return p.Gap(attacker, target) <= m.Range
}

func (p *Policy) ShouldDamage(attacker, target battle.Attackable) bool {
	m, ok := p.master(attacker)
	if !ok {
		return false
	}
	t := target.Base()
	if t.CurrentHealth < 1 || t.State == battle.StateKnockBack || t.State == battle.StateDead {
		return false
	}
	since, ok := p.engagedAt[attacker.Base().ID]
	if !ok {
		return false
	}
	cycle := m.AttackFrames
	if cycle < 1 {
		cycle = 1
	}
	elapsed := p.now() - since
	return elapsed > 0 && elapsed%cycle == m.HitFrame%cycle
}

func (p *Policy) ShouldWalk(u *battle.UnitEntity) bool {
	return u.Distance < p.Length
}

// Track records when an entity starts or stops fighting so hits line up
// with its attack cycle.
func (p *Policy) Track(e battle.Attackable) {
	b := e.Base()
	if b.State == battle.StateEngaged {
		p.engagedAt[b.ID] = p.now()
		return
	}
	delete(p.engagedAt, b.ID)
}
