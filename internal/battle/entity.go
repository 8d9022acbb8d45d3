package battle

// State is the per-entity battle state.
type State int

const (
	StateIdle State = iota
	StateEngaged
	StateKnockBack
	StateDead
	StateWait
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEngaged:
		return "engaged"
	case StateKnockBack:
		return "knock_back"
	case StateDead:
		return "dead"
	case StateWait:
		return "wait"
	}
	return "unknown"
}

// AttackableEntity is the data shared by units and castles.
type AttackableEntity struct {
	ID       int
	IsPlayer bool
	State    State

	MaxHealth     int
	CurrentHealth int
	// CurrentFrameDamage is the damage taken during the current frame only.
	CurrentFrameDamage int

	CurrentKnockBackFrameCount int
	Distance                   float64

	// EngagedID is the id of the entity being fought, 0 when none.
	// Resolve it with Logic.Entity.
	EngagedID int
}

func (e *AttackableEntity) Base() *AttackableEntity { return e }

func (e *AttackableEntity) IsEngaged() bool { return e.EngagedID != 0 }

// Attackable is implemented by *UnitEntity and *CastleEntity.
type Attackable interface {
	Base() *AttackableEntity
}

type UnitEntity struct {
	AttackableEntity
	UnitID int
}

type CastleEntity struct {
	AttackableEntity
	CastleID int
}

func newUnit(id, unitID int, isPlayer bool, maxHealth int) *UnitEntity {
	return &UnitEntity{
		AttackableEntity: AttackableEntity{
			ID: id, IsPlayer: isPlayer, State: StateIdle,
			MaxHealth: maxHealth, CurrentHealth: maxHealth,
		},
		UnitID: unitID,
	}
}

func newCastle(id, castleID int, isPlayer bool, maxHealth int) *CastleEntity {
	return &CastleEntity{
		AttackableEntity: AttackableEntity{
			ID: id, IsPlayer: isPlayer, State: StateIdle,
			MaxHealth: maxHealth, CurrentHealth: maxHealth,
		},
		CastleID: castleID,
	}
}

func isCastle(a Attackable) bool {
	_, ok := a.(*CastleEntity)
	return ok
}
