package battle

// updateEntityState runs the per-frame transitions grouped by state:
// knock back, engaged, then idle. A unit that leaves one group for a later
// one is handled again there in the same frame. Callbacks compare against
// the states snapshotted when the phase started.
func (l *Logic) updateEntityState() {
	old := make(map[int]State, len(l.units)+len(l.castles))
	for _, u := range l.units {
		old[u.ID] = u.State
	}
	for _, c := range l.castles {
		old[c.ID] = c.State
	}

	for _, u := range l.units {
		if u.State == StateKnockBack {
			l.updateKnockBackState(u)
		}
	}
	for _, u := range l.units {
		if u.State == StateEngaged {
			l.updateEngagedState(u, old)
		}
	}
	for _, u := range l.units {
		if u.State == StateIdle && (u.CurrentHealth < 1 || l.crossedKnockBackThreshold(u)) {
			startKnockBack(u)
		}
	}
	for _, u := range l.units {
		if u.State == StateIdle {
			l.seekEngagement(u)
		}
	}

	l.updateCastleState(l.castles[aiSlot])
	l.updateCastleState(l.castles[playerSlot])

	for _, u := range l.units {
		if u.State != old[u.ID] {
			l.delegate.OnAttackableEntityStateChanged(u, old[u.ID])
		}
	}
	for _, c := range []*CastleEntity{l.castles[aiSlot], l.castles[playerSlot]} {
		if c.State != old[c.ID] {
			l.delegate.OnAttackableEntityStateChanged(c, old[c.ID])
		}
	}
}

func (l *Logic) updateKnockBackState(u *UnitEntity) {
	m, ok := l.unitMasters[u.UnitID]
	if !ok {
		l.stats.MissingMaster++
		return
	}
	if u.CurrentKnockBackFrameCount < m.KnockBackFrames {
		return
	}
	u.CurrentKnockBackFrameCount = 0
	if u.CurrentHealth < 1 {
		u.State = StateDead
		return
	}
	u.State = StateIdle
}

func (l *Logic) updateEngagedState(u *UnitEntity, old map[int]State) {
	if u.CurrentHealth < 1 {
		startKnockBack(u)
		return
	}
	target := l.Entity(u.EngagedID)
	if target == nil || !engageable(old[u.EngagedID]) || target.Base().CurrentHealth < 1 {
		u.State = StateIdle
		u.EngagedID = 0
	}
	if l.crossedKnockBackThreshold(u) {
		startKnockBack(u)
	}
}

func (l *Logic) seekEngagement(u *UnitEntity) {
	for _, other := range l.units {
		if other.IsPlayer == u.IsPlayer {
			continue
		}
		if !engageable(other.State) {
			continue
		}
		if !l.canClaim(u, other) {
			continue
		}
		if !l.delegate.ShouldEngageAttackableEntity(u, other) {
			continue
		}
		engage(u, other.ID)
		return
	}

	castle := l.castles[aiSlot]
	if !u.IsPlayer {
		castle = l.castles[playerSlot]
	}
	if castle.State == StateDead || castle.CurrentHealth < 1 {
		return
	}
	if l.delegate.ShouldEngageAttackableEntity(u, castle) {
		engage(u, castle.ID)
	}
}

// canClaim applies the chivalrous rule in its strict form: the target must
// not be engaged with anyone else, and no other unit may already be engaging
// it, even one the target ignores. Castles are never claimed.
func (l *Logic) canClaim(u, target *UnitEntity) bool {
	if !l.cfg.chivalrousEngage {
		return true
	}
	if target.IsEngaged() && target.EngagedID != u.ID {
		return false
	}
	for _, o := range l.units {
		if o != u && o.EngagedID == target.ID {
			return false
		}
	}
	return true
}

// crossedKnockBackThreshold reports whether this frame's damage moved the
// unit below a health threshold. Only the highest crossed threshold counts.
func (l *Logic) crossedKnockBackThreshold(u *UnitEntity) bool {
	if u.CurrentFrameDamage <= 0 {
		return false
	}
	cur := float64(u.CurrentHealth)
	before := cur + float64(u.CurrentFrameDamage)
	for _, th := range l.cfg.thresholds {
		line := th * float64(u.MaxHealth)
		if cur < line && before >= line {
			return true
		}
	}
	return false
}

func (l *Logic) updateCastleState(c *CastleEntity) {
	if c.State != StateDead && c.CurrentHealth < 1 {
		c.State = StateDead
		c.EngagedID = 0
	}
}

func engageable(s State) bool {
	return s == StateIdle || s == StateEngaged
}

func engage(u *UnitEntity, targetID int) {
	u.State = StateEngaged
	u.EngagedID = targetID
}

func startKnockBack(u *UnitEntity) {
	u.State = StateKnockBack
	u.EngagedID = 0
	u.CurrentKnockBackFrameCount = 0
}
