package battle

// UnitMaster is the static data of a unit type.
type UnitMaster struct {
	UnitID          int
	Name            string
	Cost            float64
	MaxHealth       int
	Power           int
	Speed           float64
	KnockBackFrames int
	KnockBackSpeed  float64

	// Presentation timing, read by delegates deciding engagement and hits.
	Range        float64
	AttackFrames int
	HitFrame     int
}

type CastleMaster struct {
	CastleID  int
	Name      string
	MaxHealth int
}

// Wave spawns UnitIDs for the AI on the given frame (1-based).
type Wave struct {
	Frame   int
	UnitIDs []int
}

type StageMaster struct {
	StageID       int
	Length        float64
	PlayerCastleX float64
	AICastleX     float64
	AICastle      CastleMaster
	Waves         []Wave
}

// PlayerParams describes the player's side of the battle.
type PlayerParams struct {
	UnitIDs []int
	Castle  CastleMaster
}

type InitParams struct {
	Delegate    Delegate
	Stage       StageMaster
	UnitMasters []UnitMaster
	Player      PlayerParams
	// Config is optional; DefaultConfig is used when nil.
	Config *Config
}
