package dao

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

// MemoryDao is a map-backed DaoMethod used by usecase tests and the
// cron server's dry-run mode. Transaction applies fn directly: there is
// no rollback, callers validate before mutating.
type MemoryDao struct {
	mu sync.Mutex

	nextID       int64
	transactions map[int64]model.BankTransaction
	vouchers     map[int64]model.Voucher
	statuses     map[int64]model.TransactionStatus
	approvals    map[int64]model.ManualValidationApproval
	houses       map[int64]model.House
	balances     map[int64]model.HouseBalance
	periods      map[int64]model.Period
	configs      map[int64]model.PeriodConfig
	overrides    map[int64]model.ChargeOverride
	charges      map[int64]model.HousePeriodCharge
	allocations  map[int64]model.PaymentAllocation
	runs         map[int64]model.ReconcileRun
}

func NewMemoryDao() *MemoryDao {
	return &MemoryDao{
		transactions: make(map[int64]model.BankTransaction),
		vouchers:     make(map[int64]model.Voucher),
		statuses:     make(map[int64]model.TransactionStatus),
		approvals:    make(map[int64]model.ManualValidationApproval),
		houses:       make(map[int64]model.House),
		balances:     make(map[int64]model.HouseBalance),
		periods:      make(map[int64]model.Period),
		configs:      make(map[int64]model.PeriodConfig),
		overrides:    make(map[int64]model.ChargeOverride),
		charges:      make(map[int64]model.HousePeriodCharge),
		allocations:  make(map[int64]model.PaymentAllocation),
		runs:         make(map[int64]model.ReconcileRun),
	}
}

// SeedBankTransaction and friends exist so tests can arrange fixtures
// through the same store the usecases read.

func (m *MemoryDao) SeedBankTransaction(tx model.BankTransaction) model.BankTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.ID == 0 {
		tx.ID = m.id()
	}
	m.transactions[tx.ID] = tx
	return tx
}

func (m *MemoryDao) SeedVoucher(v model.Voucher) model.Voucher {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == 0 {
		v.ID = m.id()
	}
	m.vouchers[v.ID] = v
	return v
}

func (m *MemoryDao) SeedChargeOverride(o model.ChargeOverride) model.ChargeOverride {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = m.id()
	}
	m.overrides[o.ID] = o
	return o
}

func (m *MemoryDao) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemoryDao) Transaction(fn func(DaoMethod) error) error {
	return fn(m)
}

func (m *MemoryDao) GetBankTransactionByID(id int64) (model.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return tx, &entity.NotFoundError{Entity: "bank_transaction", ID: id}
	}
	return tx, nil
}

func (m *MemoryDao) GetUnconfirmedDeposits(r entity.DateRange, afterID int64, limit int) ([]model.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.BankTransaction
	for _, tx := range m.transactions {
		if tx.IsDeposit && !tx.Confirmed && tx.ID > afterID && r.Contains(tx.TxDate) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryDao) UpdateBankTransaction(tx model.BankTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryDao) GetVoucherByID(id int64) (model.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vouchers[id]
	if !ok {
		return v, &entity.NotFoundError{Entity: "voucher", ID: id}
	}
	return v, nil
}

func (m *MemoryDao) GetUnconfirmedVouchersByAmount(amount decimal.Decimal) ([]model.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Voucher
	for _, v := range m.vouchers {
		if !v.Confirmed && v.Amount.Equal(amount) {
			out = append(out, v)
		}
	}
	sortVouchers(out)
	return out, nil
}

func (m *MemoryDao) GetUnfundedVouchers(f entity.ListFilters) ([]model.Voucher, int, error) {
	f = f.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Voucher
	for _, v := range m.vouchers {
		if v.Confirmed || v.BankTransactionID != nil {
			continue
		}
		if !f.Range.Contains(v.VoucherDate) {
			continue
		}
		if f.HouseNumber != nil && (v.HouseNumber == nil || *v.HouseNumber != *f.HouseNumber) {
			continue
		}
		out = append(out, v)
	}
	sortVouchers(out)
	total := len(out)
	return paginateVouchers(out, f), total, nil
}

func sortVouchers(vs []model.Voucher) {
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].VoucherDate.Equal(vs[j].VoucherDate) {
			return vs[i].ID < vs[j].ID
		}
		return vs[i].VoucherDate.Before(vs[j].VoucherDate)
	})
}

func paginateVouchers(vs []model.Voucher, f entity.ListFilters) []model.Voucher {
	start := f.Offset()
	if start >= len(vs) {
		return nil
	}
	end := start + f.PageSize
	if end > len(vs) {
		end = len(vs)
	}
	return vs[start:end]
}

func (m *MemoryDao) UpdateVoucher(v model.Voucher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vouchers[v.ID] = v
	return nil
}

func (m *MemoryDao) GetTransactionStatusByID(id int64) (model.TransactionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.statuses[id]
	if !ok {
		return st, &entity.NotFoundError{Entity: "transaction_status", ID: id}
	}
	return st, nil
}

func (m *MemoryDao) GetTransactionStatusByTransactionID(txID int64) (model.TransactionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.statuses {
		if st.BankTransactionID == txID {
			return st, nil
		}
	}
	return model.TransactionStatus{}, &entity.NotFoundError{Entity: "transaction_status", ID: txID}
}

func (m *MemoryDao) SaveTransactionStatus(st model.TransactionStatus) (model.TransactionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.statuses {
		if existing.BankTransactionID == st.BankTransactionID {
			st.ID = existing.ID
			st.CreateTime = existing.CreateTime
			break
		}
	}
	if st.ID == 0 {
		st.ID = m.id()
	}
	st.UpdateTime = time.Now().Unix()
	if st.CreateTime == 0 {
		st.CreateTime = st.UpdateTime
	}
	m.statuses[st.ID] = st
	return st, nil
}

func (m *MemoryDao) GetUnclaimedDeposits(f entity.ListFilters) ([]model.TransactionStatus, int, error) {
	return m.listStatuses(f, map[string]bool{
		consts.ValidationNotFound: true,
		consts.ValidationConflict: true,
	})
}

func (m *MemoryDao) GetManualCases(f entity.ListFilters) ([]model.TransactionStatus, int, error) {
	return m.listStatuses(f, map[string]bool{consts.ValidationRequiresManual: true})
}

func (m *MemoryDao) listStatuses(f entity.ListFilters, want map[string]bool) ([]model.TransactionStatus, int, error) {
	f = f.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.TransactionStatus
	for _, st := range m.statuses {
		if !want[st.ValidationStatus] {
			continue
		}
		if !f.Range.Start.IsZero() && st.CreateTime < f.Range.Start.Unix() {
			continue
		}
		if !f.Range.End.IsZero() && st.CreateTime > f.Range.End.Unix() {
			continue
		}
		if f.HouseNumber != nil && !statusMentionsHouse(st, *f.HouseNumber) {
			continue
		}
		out = append(out, st)
	}
	sortStatuses(out, f.SortBy)
	total := len(out)
	start := f.Offset()
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + f.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func statusMentionsHouse(st model.TransactionStatus, house int) bool {
	for _, n := range []*int{st.IdentifiedHouseNumber, st.CentsHouseNumber, st.ConceptHouseNumber} {
		if n != nil && *n == house {
			return true
		}
	}
	return false
}

func sortStatuses(rows []model.TransactionStatus, sortBy string) {
	sort.Slice(rows, func(i, j int) bool {
		switch sortBy {
		case entity.SortBySimilarity:
			if rows[i].TopScore != rows[j].TopScore {
				return rows[i].TopScore > rows[j].TopScore
			}
		case entity.SortByCandidateCount:
			if rows[i].CandidateCount != rows[j].CandidateCount {
				return rows[i].CandidateCount > rows[j].CandidateCount
			}
		default:
			if rows[i].CreateTime != rows[j].CreateTime {
				return rows[i].CreateTime < rows[j].CreateTime
			}
		}
		return rows[i].ID < rows[j].ID
	})
}

func (m *MemoryDao) GetStatusCountsByValidation() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, st := range m.statuses {
		counts[st.ValidationStatus]++
	}
	return counts, nil
}

func (m *MemoryDao) CreateManualValidationApproval(a *model.ManualValidationApproval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	m.approvals[a.ID] = *a
	return nil
}

func (m *MemoryDao) GetApprovalByStatusID(statusID int64) (model.ManualValidationApproval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.approvals {
		if a.StatusID == statusID {
			return a, nil
		}
	}
	return model.ManualValidationApproval{}, &entity.NotFoundError{Entity: "manual_validation_approval", ID: statusID}
}

func (m *MemoryDao) GetApprovals() ([]model.ManualValidationApproval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ManualValidationApproval, 0, len(m.approvals))
	for _, a := range m.approvals {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryDao) GetHouseByID(id int64) (model.House, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.houses[id]
	if !ok {
		return h, &entity.NotFoundError{Entity: "house", ID: id}
	}
	return h, nil
}

func (m *MemoryDao) GetHouseByNumber(number int) (model.House, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.houses {
		if h.Number == number {
			return h, nil
		}
	}
	return model.House{}, &entity.NotFoundError{Entity: "house", ID: int64(number)}
}

func (m *MemoryDao) GetHouses() ([]model.House, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.House, 0, len(m.houses))
	for _, h := range m.houses {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *MemoryDao) CreateHouse(h *model.House) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = m.id()
	m.houses[h.ID] = *h
	return nil
}

func (m *MemoryDao) GetHouseBalance(houseID int64) (model.HouseBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.balances {
		if b.HouseID == houseID {
			return b, nil
		}
	}
	return model.HouseBalance{}, &entity.NotFoundError{Entity: "house_balance", ID: houseID}
}

func (m *MemoryDao) SaveHouseBalance(b model.HouseBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == 0 {
		b.ID = m.id()
	}
	m.balances[b.ID] = b
	return nil
}

func (m *MemoryDao) GetPeriodByID(id int64) (model.Period, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[id]
	if !ok {
		return p, &entity.NotFoundError{Entity: "period", ID: id}
	}
	return p, nil
}

func (m *MemoryDao) GetPeriodByYearMonth(year, month int) (model.Period, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		if p.Year == year && p.Month == month {
			return p, nil
		}
	}
	return model.Period{}, &entity.NotFoundError{Entity: "period", ID: int64(year*100 + month)}
}

func (m *MemoryDao) CreatePeriod(p *model.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	m.periods[p.ID] = *p
	return nil
}

func (m *MemoryDao) GetActivePeriodConfig(at time.Time) (model.PeriodConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.PeriodConfig
	for id := range m.configs {
		cfg := m.configs[id]
		if cfg.EffectiveFrom.After(at) {
			continue
		}
		if cfg.EffectiveUntil != nil && cfg.EffectiveUntil.Before(at) {
			continue
		}
		if best == nil || cfg.EffectiveFrom.After(best.EffectiveFrom) {
			c := cfg
			best = &c
		}
	}
	if best == nil {
		return model.PeriodConfig{}, &entity.NotFoundError{Entity: "period_config", ID: 0}
	}
	return *best, nil
}

func (m *MemoryDao) GetOpenEndedPeriodConfig() (model.PeriodConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cfg := range m.configs {
		if cfg.EffectiveUntil == nil {
			return cfg, nil
		}
	}
	return model.PeriodConfig{}, &entity.NotFoundError{Entity: "period_config", ID: 0}
}

func (m *MemoryDao) CreatePeriodConfig(cfg *model.PeriodConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg.ID = m.id()
	m.configs[cfg.ID] = *cfg
	return nil
}

func (m *MemoryDao) UpdatePeriodConfig(cfg model.PeriodConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.ID] = cfg
	return nil
}

func (m *MemoryDao) GetChargeOverride(houseID int64, conceptType string) (model.ChargeOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.overrides {
		if o.HouseID == houseID && o.ConceptType == conceptType {
			return o, nil
		}
	}
	return model.ChargeOverride{}, &entity.NotFoundError{Entity: "charge_override", ID: houseID}
}

func (m *MemoryDao) GetHousePeriodCharges(houseID, periodID int64) ([]model.HousePeriodCharge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HousePeriodCharge
	for _, c := range m.charges {
		if c.HouseID == houseID && c.PeriodID == periodID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryDao) GetAllHousePeriodCharges(houseID int64) ([]model.HousePeriodCharge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HousePeriodCharge
	for _, c := range m.charges {
		if c.HouseID == houseID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryDao) CreateHousePeriodCharge(c *model.HousePeriodCharge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	m.charges[c.ID] = *c
	return nil
}

func (m *MemoryDao) CreatePaymentAllocation(a *model.PaymentAllocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	m.allocations[a.ID] = *a
	return nil
}

func (m *MemoryDao) GetAllocationsByHousePeriod(houseID, periodID int64) ([]model.PaymentAllocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PaymentAllocation
	for _, a := range m.allocations {
		if a.HouseID == houseID && a.PeriodID == periodID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryDao) GetAllocationsByHouse(houseID int64) ([]model.PaymentAllocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PaymentAllocation
	for _, a := range m.allocations {
		if a.HouseID == houseID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryDao) GetCreditAllocation(houseID, periodID int64) (model.PaymentAllocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.allocations {
		if a.HouseID == houseID && a.PeriodID == periodID && a.RecordType == consts.RecordTypeCredit {
			return a, nil
		}
	}
	return model.PaymentAllocation{}, &entity.NotFoundError{Entity: "payment_allocation", ID: houseID}
}

func (m *MemoryDao) CreateReconcileRun(run *model.ReconcileRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = m.id()
	m.runs[run.ID] = *run
	return nil
}

func (m *MemoryDao) GetPendingReconcileRuns() ([]model.ReconcileRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ReconcileRun
	for _, run := range m.runs {
		if run.Status == consts.RunStatusInit || run.Status == consts.RunStatusRunning {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreateTime < out[j].CreateTime })
	return out, nil
}

func (m *MemoryDao) GetReconcileRunByID(id int64) (model.ReconcileRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return run, &entity.NotFoundError{Entity: "reconcile_run", ID: id}
	}
	return run, nil
}

func (m *MemoryDao) UpdateReconcileRun(run model.ReconcileRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}
