package moneyflow

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/frahmantamala/savings/internal/category"
	"github.com/shopspring/decimal"
)

const (
	sampleMinAmount = 1.0
	sampleMaxAmount = 100.0
	sampleDaysBack  = 60
)

// RandomSample builds a submission with an amount in [1, 100], a random
// type, category and recurrence, dated within the last sixty days.
func RandomSample(rng *rand.Rand, n int, now time.Time) CreateMoneyFlowDTO {
	amount := decimal.NewFromFloat(sampleMinAmount + rng.Float64()*(sampleMaxAmount-sampleMinAmount)).Round(AmountScale)
	isExpense := rng.Intn(2) == 0
	isRecurrent := rng.Intn(2) == 0
	date := now.AddDate(0, 0, -rng.Intn(sampleDaysBack+1))

	return CreateMoneyFlowDTO{
		Name:        fmt.Sprintf("Sample %d", n),
		Amount:      amount,
		IsExpense:   &isExpense,
		Category:    category.MinCode + rng.Intn(category.MaxCode-category.MinCode+1),
		IsRecurrent: &isRecurrent,
		Date:        &date,
	}
}
