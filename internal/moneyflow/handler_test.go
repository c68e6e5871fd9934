package moneyflow_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/savings/internal"
	moneyflowDatamodel "github.com/frahmantamala/savings/internal/core/datamodel/moneyflow"
	"github.com/frahmantamala/savings/internal/core/events"
	"github.com/frahmantamala/savings/internal/moneyflow"
	moneyflowPostgres "github.com/frahmantamala/savings/internal/moneyflow/postgres"
	"github.com/frahmantamala/savings/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("MoneyFlow Handler Integration", func() {
	var (
		db     *gorm.DB
		bus    *events.EventBus
		router *chi.Mux
	)

	do := func(method, path string, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body struct {
			Error map[string]interface{} `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body.Error
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&moneyflowDatamodel.MoneyFlow{})).To(Succeed())

		bus = events.NewEventBus(slogger)
		service := moneyflow.NewService(moneyflowPostgres.NewMoneyFlowRepository(db), bus, slogger)
		handler := moneyflow.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Post("/money-flows", handler.CreateMoneyFlow)
		router.Get("/money-flows", handler.ListMoneyFlows)
		router.Get("/money-flows/{id}", handler.GetMoneyFlow)
		router.Delete("/money-flows/{id}", handler.DeleteMoneyFlow)
	})

	AfterEach(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	It("creates, lists, fetches and deletes a money flow", func() {
		w := do(http.MethodPost, "/money-flows", `{"name":"Salary","amount":50,"is_expense":false,"category":3,"is_recurrent":false,"date":"2024-01-24T10:00:00Z"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created moneyflow.MoneyFlowResponse
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.Type).To(Equal(moneyflow.FlowTypeEarning))
		Expect(created.CategoryInfo.Key).To(Equal("bank"))
		Expect(created.Amount.Equal(decimal.NewFromInt(50))).To(BeTrue())

		w = do(http.MethodPost, "/money-flows", `{"name":"Groceries","amount":"20.40","category":0}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, "/money-flows?type=expense", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var list moneyflow.MoneyFlowsResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Count).To(Equal(1))
		Expect(list.MoneyFlows[0].Name).To(Equal("Groceries"))

		path := "/money-flows/" + jsonNumber(created.ID)
		w = do(http.MethodGet, path, "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodDelete, path, "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, path, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeError(w)["code"]).To(Equal(string(internal.ErrCodeMoneyFlowNotFound)))
	})

	It("returns every violation for an invalid submission", func() {
		w := do(http.MethodPost, "/money-flows", `{"name":" ","amount":0,"category":8}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		errBody := decodeError(w)
		Expect(errBody["code"]).To(Equal(string(internal.ErrCodeEmptyName)))
		details := errBody["details"].(map[string]interface{})["errors"].([]interface{})
		Expect(details).To(HaveLen(3))
	})

	It("rejects amounts the store cannot hold", func() {
		w := do(http.MethodPost, "/money-flows", `{"name":"Lottery","amount":"123456789012345678901.23","category":3}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w)["code"]).To(Equal(string(internal.ErrCodeInvalidAmount)))

		var count int64
		Expect(db.Model(&moneyflowDatamodel.MoneyFlow{}).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("rejects malformed bodies and unknown fields", func() {
		Expect(do(http.MethodPost, "/money-flows", `{"name":`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/money-flows", `{"name":"x","amount":1,"currency":"EUR"}`).Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects an unknown type filter", func() {
		w := do(http.MethodGet, "/money-flows?type=saving", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w)["code"]).To(Equal(string(internal.ErrCodeInvalidFlowType)))
	})

	It("rejects non-numeric ids", func() {
		Expect(do(http.MethodDelete, "/money-flows/abc", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("returns not found when deleting an unknown id", func() {
		w := do(http.MethodDelete, "/money-flows/12345", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})

func jsonNumber(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
