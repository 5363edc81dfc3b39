package consts

// Charge concept types.
const (
	ConceptPenalty       = "penalty"
	ConceptMaintenance   = "maintenance"
	ConceptWater         = "water"
	ConceptExtraordinary = "extraordinary"
	ConceptOther         = "other"
)

// ConceptPriority is the fixed distribution order of the allocation engine.
// Money fills each concept completely before advancing to the next.
var ConceptPriority = []string{
	ConceptPenalty,
	ConceptMaintenance,
	ConceptWater,
	ConceptExtraordinary,
	ConceptOther,
}

// Charge sources recorded on materialized HousePeriodCharge rows.
const (
	ChargeSourceOverride = "override"
	ChargeSourceConfig   = "config"
	ChargeSourceFallback = "fallback"
)

// Allocation statuses, derived from allocated vs expected.
const (
	AllocationComplete = "complete"
	AllocationPartial  = "partial"
	AllocationOverpaid = "overpaid"
)

// House balance statuses. Debt wins over credit, credit over balanced.
const (
	BalanceInDebt   = "in_debt"
	BalanceCredited = "credited"
	BalanceBalanced = "balanced"
)

const (
	// Periods the allocation engine will carry leftover money into.
	CarryLookaheadPeriods = 12

	// Fallback maintenance charge when no PeriodConfig applies to a period
	// and no override exists. Water/extraordinary have no fallback: without
	// a config those concepts simply produce no charge.
	FallbackMaintenanceAmount = "800.00"
)
