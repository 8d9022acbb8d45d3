package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"lane_battle/internal/battle"
)

type BattleSettings struct {
	CostRecoveryPerFrame      float64   `mapstructure:"costRecoveryPerFrame"`
	MaxAvailableCost          float64   `mapstructure:"maxAvailableCost"`
	ChivalrousEngage          bool      `mapstructure:"chivalrousEngage"`
	KnockBackHealthThresholds []float64 `mapstructure:"knockBackHealthThresholds"`
}

type PlayerSettings struct {
	Units  []int `mapstructure:"units"`
	Castle int   `mapstructure:"castle"`
}

type BotSettings struct {
	// SpawnChance is the per-frame chance that the bot buys an affordable unit.
	SpawnChance float64 `mapstructure:"spawnChance"`
}

type StoreSettings struct {
	// Driver is "sqlite", "postgres" or empty to disable the run history.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LiveSettings struct {
	Addr string `mapstructure:"addr"`
	FPS  int    `mapstructure:"fps"`
}

// Settings configure the simulation and live server binaries.
type Settings struct {
	LogLevel     string `mapstructure:"logLevel"`
	AssetsDir    string `mapstructure:"assetsDir"`
	Stage        int    `mapstructure:"stage"`
	Seed         int64  `mapstructure:"seed"`
	Runs         int    `mapstructure:"runs"`
	Workers      int    `mapstructure:"workers"`
	MaxFrames    int    `mapstructure:"maxFrames"`
	Output       string `mapstructure:"output"`
	RecordEvents bool   `mapstructure:"recordEvents"`

	Battle BattleSettings `mapstructure:"battle"`
	Player PlayerSettings `mapstructure:"player"`
	Bot    BotSettings    `mapstructure:"bot"`
	Store  StoreSettings  `mapstructure:"store"`
	Live   LiveSettings   `mapstructure:"live"`
}

// NewViper returns a viper instance with every default set and LANE_*
// environment overrides enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("logLevel", "info")
	v.SetDefault("assetsDir", "assets")
	v.SetDefault("stage", 1)
	v.SetDefault("seed", 12345)
	v.SetDefault("runs", 1)
	v.SetDefault("workers", 8)
	v.SetDefault("maxFrames", 18000)
	v.SetDefault("output", "out.json")
	v.SetDefault("recordEvents", true)

	v.SetDefault("battle.costRecoveryPerFrame", 0.05)
	v.SetDefault("battle.maxAvailableCost", 100)
	v.SetDefault("battle.chivalrousEngage", true)
	v.SetDefault("battle.knockBackHealthThresholds", []float64{0.75, 0.5, 0.25})

	v.SetDefault("player.units", []int{1, 2, 3})
	v.SetDefault("player.castle", 1)

	v.SetDefault("bot.spawnChance", 0.05)

	v.SetDefault("store.driver", "")
	v.SetDefault("store.dsn", "runs.db")

	v.SetDefault("live.addr", ":8080")
	v.SetDefault("live.fps", 60)

	v.SetEnvPrefix("LANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the optional config file at path into v and decodes
// the result.
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	if s.Runs < 1 {
		s.Runs = 1
	}
	return &s, nil
}

func (s *Settings) BattleConfig() *battle.Config {
	return battle.NewConfig(battle.ConfigParams{
		CostRecoveryPerFrame:      s.Battle.CostRecoveryPerFrame,
		MaxAvailableCost:          s.Battle.MaxAvailableCost,
		ChivalrousEngage:          s.Battle.ChivalrousEngage,
		KnockBackHealthThresholds: s.Battle.KnockBackHealthThresholds,
	})
}
