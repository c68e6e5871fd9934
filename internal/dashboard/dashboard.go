package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/savings/internal/core/events"
	"github.com/frahmantamala/savings/internal/moneyflow"
	"github.com/shopspring/decimal"
)

type LedgerReader interface {
	All(ctx context.Context) ([]*moneyflow.MoneyFlow, error)
}

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Summary is one computed dashboard snapshot.
type Summary struct {
	TotalExpense decimal.Decimal               `json:"total_expense"`
	TotalEarning decimal.Decimal               `json:"total_earning"`
	ExpenseRatio decimal.Decimal               `json:"expense_ratio"`
	EarningRatio decimal.Decimal               `json:"earning_ratio"`
	RatioBase    RatioBase                     `json:"ratio_base"`
	Count        int                           `json:"count"`
	ByCategory   []CategoryTotal               `json:"by_category"`
	Earnings     []moneyflow.MoneyFlowResponse `json:"earnings"`
	Expenses     []moneyflow.MoneyFlowResponse `json:"expenses"`
	Revision     uint64                        `json:"revision"`
	ComputedAt   time.Time                     `json:"computed_at"`
}

// Compute derives a summary from flows. It does not set Revision.
func Compute(flows []*moneyflow.MoneyFlow, base RatioBase, now time.Time) Summary {
	totals := Aggregate(flows)
	expenseRatio, earningRatio := Ratios(totals, base)
	earnings, expenses := Partition(flows)

	return Summary{
		TotalExpense: totals.Expense,
		TotalEarning: totals.Earning,
		ExpenseRatio: expenseRatio,
		EarningRatio: earningRatio,
		RatioBase:    base,
		Count:        len(flows),
		ByCategory:   AggregateByCategory(flows),
		Earnings:     moneyflow.ToResponses(earnings),
		Expenses:     moneyflow.ToResponses(expenses),
		ComputedAt:   now,
	}
}

// Service holds the latest dashboard snapshot and recomputes it once per
// ledger change.
type Service struct {
	reader LedgerReader
	base   RatioBase
	logger *slog.Logger
	now    func() time.Time

	// refreshMu is held from the ledger read to the snapshot swap, so a
	// slower refresh can never replace a snapshot built from a newer read.
	refreshMu sync.Mutex
	mu        sync.RWMutex
	summary   Summary
}

func NewService(reader LedgerReader, base RatioBase, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if base == "" {
		base = RatioBaseTotal
	}
	return &Service{
		reader:  reader,
		base:    base,
		logger:  logger,
		now:     time.Now,
		summary: Compute(nil, base, time.Time{}),
	}
}

// Refresh reads the ledger and replaces the snapshot. Concurrent refreshes
// run one at a time.
func (s *Service) Refresh(ctx context.Context) (Summary, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	flows, err := s.reader.All(ctx)
	if err != nil {
		s.logger.Error("dashboard refresh failed", "error", err)
		return s.Summary(), err
	}

	next := Compute(flows, s.base, s.now())

	s.mu.Lock()
	next.Revision = s.summary.Revision + 1
	s.summary = next
	s.mu.Unlock()

	s.logger.Debug("dashboard refreshed",
		"revision", next.Revision,
		"count", next.Count,
		"total_expense", next.TotalExpense.String(),
		"total_earning", next.TotalEarning.String())

	return next, nil
}

// Summary returns the last computed snapshot without touching the ledger.
func (s *Service) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

func (s *Service) HandleLedgerChanged(ctx context.Context, event events.Event) error {
	_, err := s.Refresh(ctx)
	return err
}

func (s *Service) RegisterEventHandlers(bus Subscriber) {
	for _, eventType := range events.LedgerEventTypes {
		bus.Subscribe(eventType, s.HandleLedgerChanged)
	}
}
