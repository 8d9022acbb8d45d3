package battle

type stateChange struct {
	id       int
	from, to State
	frame    int
}

type healthUpdate struct {
	attacker, target int
	from, to, max    int
}

type call struct {
	name  string
	frame int
	ids   []int
}

// recorder is a Delegate that logs everything and answers policy questions
// through optional hooks. Without hooks it walks units and never engages.
type recorder struct {
	logic *Logic

	engage func(attacker, target Attackable) bool
	damage func(attacker, target Attackable) bool
	walk   func(u *UnitEntity) bool

	calls       []call
	castles     []*CastleEntity
	castleX     []float64
	spawned     []*UnitEntity
	spawnX      []float64
	spawnFrames []int
	costs       []float64
	affordable  [][]int
	states      []stateChange
	health      []healthUpdate
	knockRates  []float64
	walked      int
	gameOver    []bool
}

func (r *recorder) frame() int {
	if r.logic == nil {
		return 0
	}
	return r.logic.Frame()
}

func (r *recorder) log(name string, ids ...int) {
	r.calls = append(r.calls, call{name: name, frame: r.frame(), ids: ids})
}

func (r *recorder) OnCastleEntitySpawned(c *CastleEntity, x float64) {
	r.log("castle_spawned", c.ID)
	r.castles = append(r.castles, c)
	r.castleX = append(r.castleX, x)
}

func (r *recorder) OnUnitEntitySpawned(u *UnitEntity, x float64) {
	r.log("unit_spawned", u.ID)
	r.spawned = append(r.spawned, u)
	r.spawnX = append(r.spawnX, x)
	r.spawnFrames = append(r.spawnFrames, r.frame())
}

func (r *recorder) OnAttackableEntityStateChanged(e Attackable, old State) {
	r.log("state_changed", e.Base().ID)
	r.states = append(r.states, stateChange{id: e.Base().ID, from: old, to: e.Base().State, frame: r.frame()})
}

func (r *recorder) OnAttackableEntityWalked(e Attackable) {
	r.log("walked", e.Base().ID)
	r.walked++
}

func (r *recorder) OnAttackableEntityKnockingBack(e Attackable, rate float64) {
	r.log("knocking_back", e.Base().ID)
	r.knockRates = append(r.knockRates, rate)
}

func (r *recorder) OnAttackableEntityHealthUpdated(a, t Attackable, from, to, max int) {
	r.log("health_updated", a.Base().ID, t.Base().ID)
	r.health = append(r.health, healthUpdate{attacker: a.Base().ID, target: t.Base().ID, from: from, to: to, max: max})
}

func (r *recorder) OnAvailableCostUpdated(cost, _ float64, ids []int) {
	r.log("cost_updated")
	r.costs = append(r.costs, cost)
	r.affordable = append(r.affordable, ids)
}

func (r *recorder) OnGameOver(won bool) {
	r.log("game_over")
	r.gameOver = append(r.gameOver, won)
}

func (r *recorder) ShouldEngageAttackableEntity(a, t Attackable) bool {
	if r.engage == nil {
		return false
	}
	return r.engage(a, t)
}

func (r *recorder) ShouldDamage(a, t Attackable) bool {
	if r.damage == nil {
		return false
	}
	return r.damage(a, t)
}

func (r *recorder) ShouldUnitWalk(u *UnitEntity) bool {
	if r.walk == nil {
		return true
	}
	return r.walk(u)
}

func (r *recorder) statesOf(id int) []stateChange {
	var out []stateChange
	for _, s := range r.states {
		if s.id == id {
			out = append(out, s)
		}
	}
	return out
}

var _ Delegate = (*recorder)(nil)
