package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/savings/internal/category"
	moneyflowDatamodel "github.com/frahmantamala/savings/internal/core/datamodel/moneyflow"
	"github.com/frahmantamala/savings/internal/core/events"
	"github.com/frahmantamala/savings/internal/dashboard"
	"github.com/frahmantamala/savings/internal/moneyflow"
	moneyflowPostgres "github.com/frahmantamala/savings/internal/moneyflow/postgres"
	"github.com/frahmantamala/savings/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Suite")
}

type failingReader struct{}

func (failingReader) All(ctx context.Context) ([]*moneyflow.MoneyFlow, error) {
	return nil, errors.New("store offline")
}

// gatedReader pauses its first All call, after the ledger has been read,
// until release is closed.
type gatedReader struct {
	inner   dashboard.LedgerReader
	calls   int32
	read    chan struct{}
	release chan struct{}
}

func newGatedReader(inner dashboard.LedgerReader) *gatedReader {
	return &gatedReader{inner: inner, read: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedReader) All(ctx context.Context) ([]*moneyflow.MoneyFlow, error) {
	flows, err := g.inner.All(ctx)
	if atomic.AddInt32(&g.calls, 1) == 1 {
		close(g.read)
		<-g.release
	}
	return flows, err
}

func boolPtr(b bool) *bool { return &b }

var _ = Describe("Dashboard", func() {
	var (
		db       *gorm.DB
		ledger   *moneyflow.Service
		dash     *dashboard.Service
		ctx      context.Context
		slogger  *slog.Logger
		recorder []string
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&moneyflowDatamodel.MoneyFlow{})).To(Succeed())

		bus := events.NewEventBus(slogger)
		ledger = moneyflow.NewService(moneyflowPostgres.NewMoneyFlowRepository(db), bus, slogger)
		dash = dashboard.NewService(ledger, dashboard.RatioBaseTotal, slogger)
		dash.RegisterEventHandlers(bus)

		recorder = nil
		for _, eventType := range events.LedgerEventTypes {
			bus.Subscribe(eventType, func(ctx context.Context, e events.Event) error {
				recorder = append(recorder, e.EventType())
				return nil
			})
		}
		ctx = context.Background()
	})

	AfterEach(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	create := func(name string, amount int64, isExpense bool) *moneyflow.MoneyFlow {
		flow, err := ledger.Create(ctx, moneyflow.CreateMoneyFlowDTO{
			Name:      name,
			Amount:    decimal.NewFromInt(amount),
			IsExpense: boolPtr(isExpense),
			Category:  int(category.House),
		})
		Expect(err).NotTo(HaveOccurred())
		return flow
	}

	It("starts empty", func() {
		summary := dash.Summary()
		Expect(summary.Revision).To(BeZero())
		Expect(summary.TotalExpense.IsZero()).To(BeTrue())
		Expect(summary.TotalEarning.IsZero()).To(BeTrue())
		Expect(summary.ExpenseRatio.IsZero()).To(BeTrue())
	})

	It("reflects inserts before Create returns", func() {
		create("salary", 50, false)
		create("groceries", 20, true)

		summary := dash.Summary()
		Expect(summary.TotalEarning.Equal(decimal.NewFromInt(50))).To(BeTrue())
		Expect(summary.TotalExpense.Equal(decimal.NewFromInt(20))).To(BeTrue())
		Expect(summary.Count).To(Equal(2))
		Expect(summary.Earnings).To(HaveLen(1))
		Expect(summary.Expenses).To(HaveLen(1))
		Expect(summary.Revision).To(Equal(uint64(2)))
	})

	It("excludes deleted flows from the next aggregate", func() {
		keep := create("salary", 50, false)
		drop := create("groceries", 20, true)

		Expect(ledger.Delete(ctx, drop.ID)).To(Succeed())

		summary := dash.Summary()
		Expect(summary.TotalExpense.IsZero()).To(BeTrue())
		Expect(summary.TotalEarning.Equal(keep.Amount)).To(BeTrue())
		Expect(summary.EarningRatio.Equal(decimal.NewFromInt(1))).To(BeTrue())
	})

	It("recomputes exactly once per mutation", func() {
		a := create("a", 1, true)
		create("b", 2, false)
		Expect(ledger.Delete(ctx, a.ID)).To(Succeed())

		Expect(dash.Summary().Revision).To(Equal(uint64(len(recorder))))
		Expect(recorder).To(Equal([]string{
			events.EventTypeMoneyFlowInserted,
			events.EventTypeMoneyFlowInserted,
			events.EventTypeMoneyFlowDeleted,
		}))
	})

	It("does not recompute for rejected submissions or unknown deletes", func() {
		create("a", 1, true)

		_, err := ledger.Create(ctx, moneyflow.CreateMoneyFlowDTO{Name: "", Amount: decimal.NewFromInt(1)})
		Expect(err).To(HaveOccurred())
		Expect(ledger.Delete(ctx, 4242)).NotTo(Succeed())

		Expect(dash.Summary().Revision).To(Equal(uint64(1)))
	})

	It("uses the legacy earning base when configured", func() {
		legacy := dashboard.NewService(ledger, dashboard.RatioBaseEarning, slogger)
		create("salary", 50, false)
		create("rent", 80, true)

		summary, err := legacy.Refresh(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.RatioBase).To(Equal(dashboard.RatioBaseEarning))
		Expect(summary.ExpenseRatio.Equal(decimal.NewFromInt(1))).To(BeTrue())
		Expect(summary.EarningRatio.Equal(decimal.NewFromInt(1))).To(BeTrue())
	})

	It("keeps the previous snapshot when the ledger cannot be read", func() {
		broken := dashboard.NewService(failingReader{}, "", slogger)
		before := broken.Summary()

		_, err := broken.Refresh(ctx)
		Expect(err).To(HaveOccurred())
		Expect(broken.Summary()).To(Equal(before))
	})

	Describe("concurrent refreshes", func() {
		It("never lets a slower refresh replace a newer snapshot", func() {
			bus := events.NewEventBus(slogger)
			gatedLedger := moneyflow.NewService(moneyflowPostgres.NewMoneyFlowRepository(db), bus, slogger)
			gate := newGatedReader(gatedLedger)
			gatedDash := dashboard.NewService(gate, dashboard.RatioBaseTotal, slogger)
			gatedDash.RegisterEventHandlers(bus)

			manual := make(chan error, 1)
			go func() {
				_, err := gatedDash.Refresh(ctx)
				manual <- err
			}()
			Eventually(gate.read).Should(BeClosed())

			created := make(chan error, 1)
			go func() {
				_, err := gatedLedger.Create(ctx, moneyflow.CreateMoneyFlowDTO{
					Name:     "groceries",
					Amount:   decimal.NewFromInt(20),
					Category: int(category.Food),
				})
				created <- err
			}()
			Consistently(created, 100*time.Millisecond).ShouldNot(Receive())

			close(gate.release)
			Eventually(manual).Should(Receive(BeNil()))
			Eventually(created).Should(Receive(BeNil()))

			summary := gatedDash.Summary()
			Expect(summary.Count).To(Equal(1))
			Expect(summary.TotalExpense.Equal(decimal.NewFromInt(20))).To(BeTrue())
			Expect(summary.Revision).To(Equal(uint64(2)))
		})

		It("ends on the ledger's state under parallel writes and refreshes", func() {
			handler := dashboard.NewHandler(transport.NewBaseHandler(slogger), dash)

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(2)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := ledger.Create(ctx, moneyflow.CreateMoneyFlowDTO{
						Name:      fmt.Sprintf("flow %d", i),
						Amount:    decimal.NewFromInt(int64(i + 1)),
						IsExpense: boolPtr(i%2 == 0),
					})
					Expect(err).NotTo(HaveOccurred())
				}(i)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					w := httptest.NewRecorder()
					handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard?refresh=true", nil))
					Expect(w.Code).To(Equal(http.StatusOK))
				}()
			}
			wg.Wait()

			flows, err := ledger.All(ctx)
			Expect(err).NotTo(HaveOccurred())
			want := dashboard.Aggregate(flows)

			summary := dash.Summary()
			Expect(summary.Count).To(Equal(8))
			Expect(summary.TotalExpense.Equal(want.Expense)).To(BeTrue())
			Expect(summary.TotalEarning.Equal(want.Earning)).To(BeTrue())
			Expect(summary.TotalExpense.Equal(decimal.NewFromInt(16))).To(BeTrue())
			Expect(summary.TotalEarning.Equal(decimal.NewFromInt(20))).To(BeTrue())
		})
	})

	Describe("Handler", func() {
		It("serves the summary as JSON", func() {
			create("salary", 50, false)
			create("groceries", 20, true)

			handler := dashboard.NewHandler(transport.NewBaseHandler(slogger), dash)
			w := httptest.NewRecorder()
			handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			var body map[string]interface{}
			Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
			Expect(body["total_expense"]).To(Equal("20"))
			Expect(body["total_earning"]).To(Equal("50"))
			Expect(body["expense_ratio"]).To(Equal("0.2857"))
			Expect(body["ratio_base"]).To(Equal("total"))
		})

		It("computes on first access", func() {
			fresh := dashboard.NewService(ledger, "", slogger)
			handler := dashboard.NewHandler(transport.NewBaseHandler(slogger), fresh)
			w := httptest.NewRecorder()
			handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(fresh.Summary().Revision).To(Equal(uint64(1)))
		})

		It("reports read failures as 500", func() {
			handler := dashboard.NewHandler(transport.NewBaseHandler(slogger), dashboard.NewService(failingReader{}, "", slogger))
			w := httptest.NewRecorder()
			handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Render", func() {
		It("shows placeholders for an empty ledger", func() {
			out := dashboard.Render(dash.Summary(), 80)
			Expect(out).To(ContainSubstring("--"))
			Expect(out).To(ContainSubstring("earning"))
			Expect(out).To(ContainSubstring("expense"))
			Expect(out).To(ContainSubstring("nothing recorded"))
		})

		It("shows amounts, categories and flows", func() {
			create("salary", 50, false)
			create("groceries", 20, true)

			out := dashboard.Render(dash.Summary(), 100)
			Expect(out).To(ContainSubstring("50.00€"))
			Expect(out).To(ContainSubstring("20.00€"))
			Expect(out).To(ContainSubstring("House"))
			Expect(out).To(ContainSubstring("groceries"))
		})
	})
})
