package dashboard

import (
	"fmt"

	"github.com/frahmantamala/savings/internal"
	"github.com/frahmantamala/savings/internal/category"
	"github.com/frahmantamala/savings/internal/moneyflow"
	"github.com/shopspring/decimal"
)

// Totals is the per-type sum of a set of flows.
type Totals struct {
	Expense decimal.Decimal `json:"expense"`
	Earning decimal.Decimal `json:"earning"`
}

// Total is expense plus earning.
func (t Totals) Total() decimal.Decimal {
	return t.Expense.Add(t.Earning)
}

// Aggregate sums amounts by flow type. An empty input yields zero totals.
func Aggregate(flows []*moneyflow.MoneyFlow) Totals {
	t := Totals{Expense: decimal.Zero, Earning: decimal.Zero}
	for _, f := range flows {
		if f.IsExpense {
			t.Expense = t.Expense.Add(f.Amount)
		} else {
			t.Earning = t.Earning.Add(f.Amount)
		}
	}
	return t
}

// Partition splits flows into earnings and expenses, keeping input order.
func Partition(flows []*moneyflow.MoneyFlow) (earnings, expenses []*moneyflow.MoneyFlow) {
	earnings = make([]*moneyflow.MoneyFlow, 0)
	expenses = make([]*moneyflow.MoneyFlow, 0)
	for _, f := range flows {
		if f.IsExpense {
			expenses = append(expenses, f)
		} else {
			earnings = append(earnings, f)
		}
	}
	return earnings, expenses
}

// CategoryTotal sums one category's flows by type.
type CategoryTotal struct {
	Category category.Info   `json:"category"`
	Expense  decimal.Decimal `json:"expense"`
	Earning  decimal.Decimal `json:"earning"`
	Count    int             `json:"count"`
}

// AggregateByCategory returns one entry per category that has flows, in
// category code order.
func AggregateByCategory(flows []*moneyflow.MoneyFlow) []CategoryTotal {
	var buckets [category.MaxCode + 1]*CategoryTotal
	for _, f := range flows {
		idx := int(f.Category)
		if !f.Category.Valid() {
			idx = int(category.Food)
		}
		b := buckets[idx]
		if b == nil {
			b = &CategoryTotal{Category: category.Lookup(idx), Expense: decimal.Zero, Earning: decimal.Zero}
			buckets[idx] = b
		}
		if f.IsExpense {
			b.Expense = b.Expense.Add(f.Amount)
		} else {
			b.Earning = b.Earning.Add(f.Amount)
		}
		b.Count++
	}

	out := make([]CategoryTotal, 0, len(buckets))
	for _, b := range buckets {
		if b != nil {
			out = append(out, *b)
		}
	}
	return out
}

// RatioBase selects the reference total the ratio rings are drawn against.
type RatioBase string

const (
	// RatioBaseTotal measures each type against expense plus earning.
	RatioBaseTotal RatioBase = internal.RatioBaseTotal
	// RatioBaseEarning measures both types against earnings only. The
	// earning ring is then full whenever earnings exist, and the expense ring
	// saturates once spending passes earnings.
	RatioBaseEarning RatioBase = internal.RatioBaseEarning
)

// RatioScale is the number of decimal places ratios are rounded to.
const RatioScale = 4

// ParseRatioBase maps a config value to a RatioBase; empty means total.
func ParseRatioBase(s string) (RatioBase, error) {
	switch RatioBase(s) {
	case "", RatioBaseTotal:
		return RatioBaseTotal, nil
	case RatioBaseEarning:
		return RatioBaseEarning, nil
	}
	return "", fmt.Errorf("unknown ratio base %q", s)
}

// Ratio returns part/whole clamped to [0, 1]. A zero or negative whole
// yields 0.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	r := part.DivRound(whole, RatioScale)
	one := decimal.NewFromInt(1)
	switch {
	case r.IsNegative():
		return decimal.Zero
	case r.GreaterThan(one):
		return one
	}
	return r
}

// Ratios computes the expense and earning ring values for base.
func Ratios(t Totals, base RatioBase) (expense, earning decimal.Decimal) {
	whole := t.Total()
	if base == RatioBaseEarning {
		whole = t.Earning
	}
	return Ratio(t.Expense, whole), Ratio(t.Earning, whole)
}
