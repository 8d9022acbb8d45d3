package sim

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"lane_battle/internal/util"
)

type BatchParams struct {
	Base    Params
	Runs    int
	Workers int
}

// RunBatch runs Base Runs times with per-run seeds derived from Base.Seed.
// onResult, if set, is called once per finished run, never concurrently.
// Cancelling ctx stops handing out new runs; the summary covers what ran.
func RunBatch(ctx context.Context, bp BatchParams, onResult func(Result, error)) Summary {
	workers := bp.Workers
	if workers < 1 {
		workers = 1
	}
	agg := newAggregate(bp.Base.Init.Stage.StageID)

	var mu sync.Mutex
	wg := sync.WaitGroup{}
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := bp.Base
				p.Seed = util.RunSeed(bp.Base.Seed, i)
				p.Record = false
				res, err := RunSingle(p)

				mu.Lock()
				agg.add(res, err)
				if onResult != nil {
					onResult(res, err)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for i := 0; i < bp.Runs; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return agg.summary()
}

type aggregate struct {
	stage        int
	runs, failed int
	wins         int
	unfinished   int
	sumFrames    int
	sumSpawns    int
	byUnit       map[string]int
}

func newAggregate(stage int) *aggregate {
	return &aggregate{stage: stage, byUnit: map[string]int{}}
}

func (a *aggregate) add(res Result, err error) {
	a.runs++
	if err != nil {
		a.failed++
		return
	}
	if res.Win {
		a.wins++
	}
	if !res.Finished {
		a.unfinished++
	}
	a.sumFrames += res.Frames
	a.sumSpawns += res.PlayerSpawns
	for k, v := range res.DamageByUnit {
		a.byUnit[k] += v
	}
}

func (a *aggregate) summary() Summary {
	s := Summary{
		BatchID:    uuid.NewString(),
		Stage:      a.stage,
		Runs:       a.runs,
		Failed:     a.failed,
		Wins:       a.wins,
		Unfinished: a.unfinished,
		ByUnit:     map[string]UnitShare{},
	}
	for _, v := range a.byUnit {
		s.TotalDamage += v
	}
	for k, v := range a.byUnit {
		share := 0.0
		if s.TotalDamage > 0 {
			share = float64(v) / float64(s.TotalDamage)
		}
		s.ByUnit[k] = UnitShare{Total: v, Ratio: share}
	}
	if ok := a.runs - a.failed; ok > 0 {
		s.WinRate = float64(a.wins) / float64(ok)
		s.AvgFrames = float64(a.sumFrames) / float64(ok)
		s.AvgPlayerSpawns = float64(a.sumSpawns) / float64(ok)
	}
	return s
}
