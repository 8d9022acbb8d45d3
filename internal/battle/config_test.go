package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_SortsThresholdsDescending(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{name: "unsorted", in: []float64{0.5, 0.25, 0.75}, want: []float64{0.75, 0.5, 0.25}},
		{name: "duplicates collapse", in: []float64{0.5, 0.5, 0.25}, want: []float64{0.5, 0.25}},
		{name: "empty", in: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(ConfigParams{KnockBackHealthThresholds: tt.in})
			assert.Equal(t, tt.want, cfg.KnockBackHealthThresholds())
		})
	}
}

func TestNewConfig_IsImmutable(t *testing.T) {
	in := []float64{0.25, 0.75}
	cfg := NewConfig(ConfigParams{CostRecoveryPerFrame: 1, MaxAvailableCost: 9, ChivalrousEngage: true, KnockBackHealthThresholds: in})
	in[0] = 0.9
	got := cfg.KnockBackHealthThresholds()
	got[0] = 0.1

	assert.Equal(t, []float64{0.75, 0.25}, cfg.KnockBackHealthThresholds())
	assert.Equal(t, 1.0, cfg.CostRecoveryPerFrame())
	assert.Equal(t, 9.0, cfg.MaxAvailableCost())
	assert.True(t, cfg.ChivalrousEngage())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100.0, cfg.MaxAvailableCost())
	assert.Equal(t, []float64{0.25}, cfg.KnockBackHealthThresholds())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "knock_back", StateKnockBack.String())
	assert.Equal(t, "unknown", State(42).String())
}
