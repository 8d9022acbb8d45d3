package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lane_battle/internal/sim"
)

var ErrUnknownDriver = errors.New("store: unknown driver")

// RunRecord is one finished simulation run.
type RunRecord struct {
	ID                 string `gorm:"primaryKey;size:36"`
	CreatedAt          time.Time
	Stage              int `gorm:"index"`
	Seed               int64
	Win                bool
	Finished           bool
	Frames             int
	PlayerSpawns       int
	AISpawns           int
	DroppedSpawns      int
	MissingMaster      int
	PlayerCastleHealth int
	AICastleHealth     int
	DamageByUnit       datatypes.JSON
}

// BatchRecord is the summary of a batch of runs.
type BatchRecord struct {
	ID              string `gorm:"primaryKey;size:36"`
	CreatedAt       time.Time
	Stage           int `gorm:"index"`
	Runs            int
	Failed          int
	Wins            int
	Unfinished      int
	WinRate         float64
	AvgFrames       float64
	AvgPlayerSpawns float64
	TotalDamage     int
	ByUnit          datatypes.JSON
}

type Store struct {
	db *gorm.DB
}

// Open connects to a sqlite file (or "file::memory:") or a postgres DSN and
// migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	var dial gorm.Dialector
	switch driver {
	case "sqlite":
		dial = sqlite.Open(dsn)
	case "postgres":
		dial = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&RunRecord{}, &BatchRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

func (s *Store) SaveRun(ctx context.Context, res sim.Result) error {
	rec := RunRecord{
		ID:                 res.RunID,
		Stage:              res.Stage,
		Seed:               res.Seed,
		Win:                res.Win,
		Finished:           res.Finished,
		Frames:             res.Frames,
		PlayerSpawns:       res.PlayerSpawns,
		AISpawns:           res.AISpawns,
		DroppedSpawns:      res.DroppedSpawns,
		MissingMaster:      res.MissingMaster,
		PlayerCastleHealth: res.PlayerCastleHealth,
		AICastleHealth:     res.AICastleHealth,
		DamageByUnit:       toJSON(res.DamageByUnit),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}
	return nil
}

func (s *Store) SaveBatch(ctx context.Context, sum sim.Summary) error {
	rec := BatchRecord{
		ID:              sum.BatchID,
		Stage:           sum.Stage,
		Runs:            sum.Runs,
		Failed:          sum.Failed,
		Wins:            sum.Wins,
		Unfinished:      sum.Unfinished,
		WinRate:         sum.WinRate,
		AvgFrames:       sum.AvgFrames,
		AvgPlayerSpawns: sum.AvgPlayerSpawns,
		TotalDamage:     sum.TotalDamage,
		ByUnit:          toJSON(sum.ByUnit),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("save batch %s: %w", sum.BatchID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs of a stage, newest first.
func (s *Store) RecentRuns(ctx context.Context, stage, limit int) ([]RunRecord, error) {
	var out []RunRecord
	err := s.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// WinRate is the share of finished runs of a stage the player won, and the
// number of finished runs it is based on.
func (s *Store) WinRate(ctx context.Context, stage int) (float64, int64, error) {
	var total, wins int64
	q := s.db.WithContext(ctx).Model(&RunRecord{}).Where("stage = ? AND finished = ?", stage, true)
	if err := q.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if total == 0 {
		return 0, 0, nil
	}
	err := s.db.WithContext(ctx).Model(&RunRecord{}).
		Where("stage = ? AND finished = ? AND win = ?", stage, true, true).
		Count(&wins).Error
	if err != nil {
		return 0, 0, err
	}
	return float64(wins) / float64(total), total, nil
}
