package sim

import "encoding/json"

const (
	EventCastleSpawn = "CastleSpawn"
	EventSpawn       = "Spawn"
	EventState       = "State"
	EventWalk        = "Walk"
	EventKnockBack   = "KnockBack"
	EventHit         = "Hit"
	EventCost        = "Cost"
	EventGameOver    = "GameOver"
)

type Event struct {
	Frame   int            `json:"frame"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Result struct {
	RunID              string         `json:"run_id"`
	Stage              int            `json:"stage"`
	Seed               int64          `json:"seed"`
	Win                bool           `json:"win"`
	Finished           bool           `json:"finished"`
	Frames             int            `json:"frames"`
	PlayerSpawns       int            `json:"player_spawns"`
	AISpawns           int            `json:"ai_spawns"`
	DroppedSpawns      int            `json:"dropped_spawns"`
	MissingMaster      int            `json:"missing_master"`
	PlayerCastleHealth int            `json:"player_castle_health"`
	AICastleHealth     int            `json:"ai_castle_health"`
	DamageByUnit       map[string]int `json:"damage_by_unit,omitempty"`
	Events             []Event        `json:"events,omitempty"`
}

type UnitShare struct {
	Total int     `json:"total"`
	Ratio float64 `json:"ratio"`
}

type Summary struct {
	BatchID         string               `json:"batch_id"`
	Stage           int                  `json:"stage"`
	Runs            int                  `json:"runs"`
	Failed          int                  `json:"failed"`
	Wins            int                  `json:"wins"`
	Unfinished      int                  `json:"unfinished"`
	WinRate         float64              `json:"win_rate"`
	AvgFrames       float64              `json:"avg_frames"`
	AvgPlayerSpawns float64              `json:"avg_player_spawns"`
	TotalDamage     int                  `json:"total_damage"`
	ByUnit          map[string]UnitShare `json:"by_unit"`
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
