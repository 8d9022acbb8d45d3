package sim

import "math/rand"

// Bot stands in for the player tapping spawn buttons.
type Bot struct {
	rng    *rand.Rand
	chance float64
}

func NewBot(rng *rand.Rand, chance float64) *Bot {
	return &Bot{rng: rng, chance: chance}
}

// Pick decides whether to buy one of the affordable units this frame.
func (b *Bot) Pick(affordable []int) (int, bool) {
	if len(affordable) == 0 || b.chance <= 0 {
		return 0, false
	}
	if b.rng.Float64() >= b.chance {
		return 0, false
	}
	return affordable[b.rng.Intn(len(affordable))], true
}
