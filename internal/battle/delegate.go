package battle

// Delegate receives every notification the engine produces and answers its
// policy questions. All calls are synchronous and made from inside Init or
// Update; implementations must not call back into the Logic.
type Delegate interface {
	OnCastleEntitySpawned(castle *CastleEntity, xPosition float64)
	OnUnitEntitySpawned(unit *UnitEntity, xPosition float64)
	OnAttackableEntityStateChanged(entity Attackable, oldState State)
	OnAttackableEntityWalked(entity Attackable)
	OnAttackableEntityKnockingBack(entity Attackable, rate float64)
	OnAttackableEntityHealthUpdated(attacker, target Attackable, fromHealth, toHealth, maxHealth int)
	OnAvailableCostUpdated(cost, maxCost float64, affordableUnitIDs []int)
	OnGameOver(isPlayerWon bool)

	ShouldEngageAttackableEntity(attacker, target Attackable) bool
	ShouldDamage(attacker, target Attackable) bool
	ShouldUnitWalk(unit *UnitEntity) bool
}
