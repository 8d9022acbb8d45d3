package config

import "lane_battle/internal/battle"

type UnitsConfig struct {
	Units []UnitDef `yaml:"units"`
}

type UnitDef struct {
	ID              int     `yaml:"id"`
	Name            string  `yaml:"name"`
	Cost            float64 `yaml:"cost"`
	MaxHealth       int     `yaml:"max_health"`
	Power           int     `yaml:"power"`
	Speed           float64 `yaml:"speed"`
	KnockBackFrames int     `yaml:"knock_back_frames"`
	KnockBackSpeed  float64 `yaml:"knock_back_speed"`
	Range           float64 `yaml:"range"`
	AttackFrames    int     `yaml:"attack_frames"`
	HitFrame        int     `yaml:"hit_frame"`
	Note            string  `yaml:"note"`
}

func (u UnitDef) Master() battle.UnitMaster {
	return battle.UnitMaster{
		UnitID:          u.ID,
		Name:            u.Name,
		Cost:            u.Cost,
		MaxHealth:       u.MaxHealth,
		Power:           u.Power,
		Speed:           u.Speed,
		KnockBackFrames: u.KnockBackFrames,
		KnockBackSpeed:  u.KnockBackSpeed,
		Range:           u.Range,
		AttackFrames:    u.AttackFrames,
		HitFrame:        u.HitFrame,
	}
}

func (c *UnitsConfig) Masters() []battle.UnitMaster {
	out := make([]battle.UnitMaster, 0, len(c.Units))
	for _, u := range c.Units {
		out = append(out, u.Master())
	}
	return out
}

func (c *UnitsConfig) Find(id int) (UnitDef, bool) {
	for _, u := range c.Units {
		if u.ID == id {
			return u, true
		}
	}
	return UnitDef{}, false
}

type CastlesConfig struct {
	Castles []CastleDef `yaml:"castles"`
}

type CastleDef struct {
	ID        int    `yaml:"id"`
	Name      string `yaml:"name"`
	MaxHealth int    `yaml:"max_health"`
	Note      string `yaml:"note"`
}

func (c CastleDef) Master() battle.CastleMaster {
	return battle.CastleMaster{CastleID: c.ID, Name: c.Name, MaxHealth: c.MaxHealth}
}

func (c *CastlesConfig) Find(id int) (CastleDef, bool) {
	for _, cd := range c.Castles {
		if cd.ID == id {
			return cd, true
		}
	}
	return CastleDef{}, false
}
