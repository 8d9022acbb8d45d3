package battle

import "errors"

var (
	ErrNilDelegate = errors.New("battle: nil delegate")
	ErrNoCastle    = errors.New("battle: castle max health must be positive")
)

const (
	playerSlot = 0
	aiSlot     = 1
)

// Stats counts what the engine did and what it had to skip.
type Stats struct {
	Frames        int
	Spawned       int
	DroppedSpawns int
	// MissingMaster counts units skipped because their master data is absent.
	MissingMaster int
}

type spawnRequest struct {
	unitID   int
	isPlayer bool
}

// Logic is the battle engine. It is not safe for concurrent use: the host
// calls Update once per frame from a single goroutine.
type Logic struct {
	cfg      *Config
	delegate Delegate
	stage    StageMaster

	unitMasters     map[int]UnitMaster
	playerUnitIDs   []int
	aiSpawnSchedule map[int][]int

	castles  [2]*CastleEntity
	units    []*UnitEntity
	entities map[int]Attackable

	availableCost float64
	spawnRequests []spawnRequest

	nextID   int
	frame    int
	gameOver bool
	stats    Stats
}

func New() *Logic {
	return &Logic{cfg: DefaultConfig(), entities: map[int]Attackable{}}
}

// Init sets the battle up from scratch and spawns both castles. It may be
// called again to restart; entity ids keep increasing across restarts.
func (l *Logic) Init(p InitParams) error {
	if p.Delegate == nil {
		return ErrNilDelegate
	}
	if p.Player.Castle.MaxHealth <= 0 || p.Stage.AICastle.MaxHealth <= 0 {
		return ErrNoCastle
	}
	l.cfg = p.Config
	if l.cfg == nil {
		l.cfg = DefaultConfig()
	}
	l.delegate = p.Delegate
	l.stage = p.Stage

	l.unitMasters = make(map[int]UnitMaster, len(p.UnitMasters))
	for _, m := range p.UnitMasters {
		l.unitMasters[m.UnitID] = m
	}
	l.playerUnitIDs = append([]int(nil), p.Player.UnitIDs...)
	l.aiSpawnSchedule = map[int][]int{}
	for _, w := range p.Stage.Waves {
		l.aiSpawnSchedule[w.Frame] = append(l.aiSpawnSchedule[w.Frame], w.UnitIDs...)
	}

	l.units = nil
	l.entities = map[int]Attackable{}
	l.spawnRequests = nil
	l.availableCost = 0
	l.frame = 0
	l.gameOver = false
	l.stats = Stats{}

	player := newCastle(l.issueID(), p.Player.Castle.CastleID, true, p.Player.Castle.MaxHealth)
	ai := newCastle(l.issueID(), p.Stage.AICastle.CastleID, false, p.Stage.AICastle.MaxHealth)
	l.castles = [2]*CastleEntity{playerSlot: player, aiSlot: ai}
	l.entities[player.ID] = player
	l.entities[ai.ID] = ai

	l.delegate.OnCastleEntitySpawned(player, p.Stage.PlayerCastleX)
	l.delegate.OnCastleEntitySpawned(ai, p.Stage.AICastleX)
	return nil
}

// Update advances the battle by one frame. It does nothing before Init or
// after the game is over.
func (l *Logic) Update() {
	if l.delegate == nil || l.gameOver {
		return
	}
	l.updateGameOver()
	if l.gameOver {
		return
	}
	l.frame++
	l.stats.Frames = l.frame

	l.updateAvailableCost(l.availableCost + l.cfg.costRecoveryPerFrame)
	l.updateAISpawn()
	l.updateSpawnRequest()
	l.updateEntityParameter()
	l.updateEntityState()
	l.updatePostProcess()
}

// RequestSpawn queues a spawn attempt resolved on the next Update.
func (l *Logic) RequestSpawn(unitID int, isPlayer bool) {
	l.spawnRequests = append(l.spawnRequests, spawnRequest{unitID: unitID, isPlayer: isPlayer})
}

func (l *Logic) RequestSpawnPlayer(unitID int) { l.RequestSpawn(unitID, true) }
func (l *Logic) RequestSpawnAI(unitID int)     { l.RequestSpawn(unitID, false) }

func (l *Logic) AvailableCost() float64 { return l.availableCost }
func (l *Logic) Frame() int             { return l.frame }
func (l *Logic) IsGameOver() bool       { return l.gameOver }
func (l *Logic) Stats() Stats           { return l.stats }
func (l *Logic) Config() *Config        { return l.cfg }

// Units returns the live units in spawn order.
func (l *Logic) Units() []*UnitEntity {
	return append([]*UnitEntity(nil), l.units...)
}

func (l *Logic) Castle(isPlayer bool) *CastleEntity {
	if isPlayer {
		return l.castles[playerSlot]
	}
	return l.castles[aiSlot]
}

// Entity resolves an entity id, typically an EngagedID. It returns nil for
// ids that are not tracked.
func (l *Logic) Entity(id int) Attackable {
	if id == 0 {
		return nil
	}
	return l.entities[id]
}

func (l *Logic) UnitMaster(unitID int) (UnitMaster, bool) {
	m, ok := l.unitMasters[unitID]
	return m, ok
}

func (l *Logic) issueID() int {
	l.nextID++
	return l.nextID
}

func (l *Logic) baseX(isPlayer bool) float64 {
	if isPlayer {
		return l.stage.PlayerCastleX
	}
	return l.stage.AICastleX
}

func (l *Logic) updateGameOver() {
	player, ai := l.castles[playerSlot], l.castles[aiSlot]
	if ai.CurrentHealth >= 1 && player.CurrentHealth >= 1 {
		return
	}
	l.gameOver = true
	for _, u := range l.units {
		if u.State == StateIdle {
			continue
		}
		old := u.State
		u.State = StateIdle
		u.EngagedID = 0
		l.delegate.OnAttackableEntityStateChanged(u, old)
	}
	// AI castle first: simultaneous destruction is a player win.
	l.delegate.OnGameOver(ai.CurrentHealth < 1)
}

func (l *Logic) updateAvailableCost(cost float64) {
	maxCost := l.cfg.maxAvailableCost
	if cost > maxCost {
		cost = maxCost
	}
	if cost < 0 {
		cost = 0
	}
	l.availableCost = cost
	l.delegate.OnAvailableCostUpdated(cost, maxCost, l.affordablePlayerUnitIDs(cost))
}

func (l *Logic) affordablePlayerUnitIDs(cost float64) []int {
	ids := make([]int, 0, len(l.playerUnitIDs))
	for _, id := range l.playerUnitIDs {
		if m, ok := l.unitMasters[id]; ok && m.Cost <= cost {
			ids = append(ids, id)
		}
	}
	return ids
}

func (l *Logic) updateAISpawn() {
	for _, id := range l.aiSpawnSchedule[l.frame] {
		l.RequestSpawnAI(id)
	}
}

func (l *Logic) updateSpawnRequest() {
	if len(l.spawnRequests) == 0 {
		return
	}
	cost := l.availableCost
	for _, req := range l.spawnRequests {
		m, ok := l.unitMasters[req.unitID]
		if !ok {
			l.stats.MissingMaster++
			l.stats.DroppedSpawns++
			continue
		}
		if req.isPlayer {
			if cost-m.Cost < 0 {
				l.stats.DroppedSpawns++
				continue
			}
			cost -= m.Cost
		}
		u := newUnit(l.issueID(), m.UnitID, req.isPlayer, m.MaxHealth)
		l.units = append(l.units, u)
		l.entities[u.ID] = u
		l.stats.Spawned++
		l.delegate.OnUnitEntitySpawned(u, l.baseX(req.isPlayer))
	}
	l.spawnRequests = l.spawnRequests[:0]
	l.updateAvailableCost(cost)
}

func (l *Logic) updateEntityParameter() {
	for _, u := range l.units {
		m, ok := l.unitMasters[u.UnitID]
		if !ok {
			l.stats.MissingMaster++
			continue
		}
		l.updateDamage(u, m)
		l.updateDistance(u, m)
	}
}

func (l *Logic) updateDamage(u *UnitEntity, m UnitMaster) {
	target := l.Entity(u.EngagedID)
	if target == nil {
		return
	}
	if !l.delegate.ShouldDamage(u, target) {
		return
	}
	t := target.Base()
	from := t.CurrentHealth
	t.CurrentHealth -= m.Power
	t.CurrentFrameDamage += m.Power
	l.delegate.OnAttackableEntityHealthUpdated(u, target, from, t.CurrentHealth, t.MaxHealth)
}

func (l *Logic) updateDistance(u *UnitEntity, m UnitMaster) {
	switch u.State {
	case StateKnockBack:
		u.Distance -= m.KnockBackSpeed
		if u.Distance < 0 {
			u.Distance = 0
		}
		u.CurrentKnockBackFrameCount++
		rate := 1.0
		if m.KnockBackFrames > 0 {
			rate = float64(u.CurrentKnockBackFrameCount) / float64(m.KnockBackFrames)
			if rate > 1 {
				rate = 1
			}
		}
		l.delegate.OnAttackableEntityKnockingBack(u, rate)
	case StateIdle:
		if l.delegate.ShouldUnitWalk(u) {
			u.Distance += m.Speed
			l.delegate.OnAttackableEntityWalked(u)
		}
	}
}

func (l *Logic) updatePostProcess() {
	alive := l.units[:0]
	for _, u := range l.units {
		if u.State == StateDead {
			delete(l.entities, u.ID)
			continue
		}
		alive = append(alive, u)
	}
	for i := len(alive); i < len(l.units); i++ {
		l.units[i] = nil
	}
	l.units = alive

	for _, u := range l.units {
		if u.EngagedID != 0 && l.entities[u.EngagedID] == nil {
			u.EngagedID = 0
		}
		u.CurrentFrameDamage = 0
	}
	for _, c := range l.castles {
		c.CurrentFrameDamage = 0
	}
}
