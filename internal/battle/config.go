package battle

import "sort"

// ConfigParams are the tunables accepted by NewConfig.
type ConfigParams struct {
	CostRecoveryPerFrame      float64
	MaxAvailableCost          float64
	ChivalrousEngage          bool
	KnockBackHealthThresholds []float64
}

// Config is immutable once built; use NewConfig or DefaultConfig.
type Config struct {
	costRecoveryPerFrame float64
	maxAvailableCost     float64
	chivalrousEngage     bool
	thresholds           []float64
}

func DefaultConfig() *Config {
	return NewConfig(ConfigParams{
		CostRecoveryPerFrame:      0.05,
		MaxAvailableCost:          100,
		ChivalrousEngage:          true,
		KnockBackHealthThresholds: []float64{0.25},
	})
}

// NewConfig copies p and orders the knockback thresholds from highest to
// lowest. Duplicate thresholds are collapsed.
func NewConfig(p ConfigParams) *Config {
	th := append([]float64(nil), p.KnockBackHealthThresholds...)
	sort.Sort(sort.Reverse(sort.Float64Slice(th)))
	out := th[:0]
	for _, v := range th {
		if len(out) > 0 && v == out[len(out)-1] {
			continue
		}
		out = append(out, v)
	}
	return &Config{
		costRecoveryPerFrame: p.CostRecoveryPerFrame,
		maxAvailableCost:     p.MaxAvailableCost,
		chivalrousEngage:     p.ChivalrousEngage,
		thresholds:           out,
	}
}

func (c *Config) CostRecoveryPerFrame() float64 { return c.costRecoveryPerFrame }
func (c *Config) MaxAvailableCost() float64     { return c.maxAvailableCost }
func (c *Config) ChivalrousEngage() bool        { return c.chivalrousEngage }

// KnockBackHealthThresholds returns a copy, sorted descending.
func (c *Config) KnockBackHealthThresholds() []float64 {
	return append([]float64(nil), c.thresholds...)
}
