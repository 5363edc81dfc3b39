package consts

const (
	// ReconcileRun status codes
	RunStatusInit     = 1
	RunStatusRunning  = 2
	RunStatusFinished = 3

	// Validation statuses for deposits
	ValidationConfirmed      = "confirmed"
	ValidationNotFound       = "not_found"
	ValidationConflict       = "conflict"
	ValidationRequiresManual = "requires_manual"

	// Allocation record sources
	RecordTypeDeposit = "deposit"
	RecordTypeManual  = "manual"
	RecordTypeCredit  = "credit"

	// Sentinel record id for credit-application allocations. Not a real
	// deposit or voucher id.
	SystemCreditRecordID = int64(-1)

	// Sentinel owner for houses auto-created by operator assignment.
	SystemUserID = int64(0)

	// Default config
	DefaultBatchSize     = 500
	DefaultWorkerNumber  = 1
	DefaultIntervalInSec = 5
)

const (
	// House number bounds for cents/concept identification.
	MinHouseNumber        = 1
	DefaultMaxHouseNumber = 120

	// Matcher scoring weights. Must sum to 1.
	WeightDateProximity = 0.5
	WeightHouseHint     = 0.3
	WeightTieSize       = 0.2

	// Days after which date proximity contributes nothing.
	DateProximityWindowDays = 7

	// Single candidate at or above this score is auto-confirmed.
	AutoConfirmThreshold = 0.8

	// Leader must beat the runner-up by at least this much to win outright.
	DominanceGap = 0.25
)
