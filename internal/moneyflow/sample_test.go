package moneyflow_test

import (
	"math/rand"
	"time"

	"github.com/frahmantamala/savings/internal/moneyflow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("RandomSample", func() {
	It("always produces a valid submission", func() {
		rng := rand.New(rand.NewSource(7))
		now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
		seenExpense, seenEarning := false, false

		for i := 0; i < 500; i++ {
			dto := moneyflow.RandomSample(rng, i, now)
			flow, err := moneyflow.NewMoneyFlow(dto, now)
			Expect(err).NotTo(HaveOccurred())

			Expect(flow.Amount.GreaterThanOrEqual(decimal.NewFromInt(1))).To(BeTrue())
			Expect(flow.Amount.LessThanOrEqual(decimal.NewFromInt(100))).To(BeTrue())
			Expect(flow.Date.After(now)).To(BeFalse())
			Expect(flow.Date.Before(now.AddDate(0, 0, -61))).To(BeFalse())

			if flow.IsExpense {
				seenExpense = true
			} else {
				seenEarning = true
			}
		}
		Expect(seenExpense && seenEarning).To(BeTrue())
	})
})
