package moneyflow

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/frahmantamala/savings/internal"
	"github.com/frahmantamala/savings/internal/category"
	moneyflowDatamodel "github.com/frahmantamala/savings/internal/core/datamodel/moneyflow"
	"github.com/frahmantamala/savings/internal/core/events"
	"github.com/shopspring/decimal"
)

// FlowType is the two-way split of the ledger. It is derived from IsExpense.
type FlowType string

const (
	FlowTypeExpense FlowType = "expense"
	FlowTypeEarning FlowType = "earning"
)

func ParseFlowType(s string) (FlowType, error) {
	switch FlowType(strings.ToLower(strings.TrimSpace(s))) {
	case FlowTypeExpense:
		return FlowTypeExpense, nil
	case FlowTypeEarning:
		return FlowTypeEarning, nil
	case "":
		return "", nil
	}
	return "", internal.ErrInvalidFlowType.WithCause(fmt.Errorf("got %q", s))
}

type MoneyFlow struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Date        time.Time         `json:"date"`
	Amount      decimal.Decimal   `json:"amount"`
	IsExpense   bool              `json:"is_expense"`
	Category    category.Category `json:"category"`
	IsRecurrent bool              `json:"is_recurrent"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (m *MoneyFlow) Type() FlowType {
	if m.IsExpense {
		return FlowTypeExpense
	}
	return FlowTypeEarning
}

func (m *MoneyFlow) ToResponse() MoneyFlowResponse {
	return MoneyFlowResponse{
		ID:           m.ID,
		Name:         m.Name,
		Date:         m.Date,
		Amount:       m.Amount,
		Type:         m.Type(),
		IsExpense:    m.IsExpense,
		Category:     int(m.Category),
		CategoryInfo: m.Category.Info(),
		IsRecurrent:  m.IsRecurrent,
		CreatedAt:    m.CreatedAt,
	}
}

func (m *MoneyFlow) change() events.MoneyFlowChange {
	return events.MoneyFlowChange{
		MoneyFlowID: m.ID,
		Name:        m.Name,
		Amount:      m.Amount.String(),
		IsExpense:   m.IsExpense,
		Category:    int(m.Category),
		IsRecurrent: m.IsRecurrent,
		Date:        m.Date,
	}
}

// NewMoneyFlow validates dto and builds an unsaved flow. A missing date
// defaults to now.
func NewMoneyFlow(dto CreateMoneyFlowDTO, now time.Time) (*MoneyFlow, error) {
	dto = dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	date := now
	if dto.Date != nil && !dto.Date.IsZero() {
		date = *dto.Date
	}

	return &MoneyFlow{
		Name:        dto.Name,
		Date:        date,
		Amount:      dto.Amount,
		IsExpense:   boolOr(dto.IsExpense, true),
		Category:    category.Category(dto.Category),
		IsRecurrent: boolOr(dto.IsRecurrent, true),
	}, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// AmountFromFloat converts a float input, rejecting NaN and infinities.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, internal.ErrInvalidAmount
	}
	return decimal.NewFromFloat(f).Round(AmountScale), nil
}

func ToDataModel(m *MoneyFlow) *moneyflowDatamodel.MoneyFlow {
	return &moneyflowDatamodel.MoneyFlow{
		ID:           m.ID,
		Name:         m.Name,
		Date:         m.Date,
		Amount:       m.Amount,
		IsExpense:    m.IsExpense,
		CategoryCode: int(m.Category),
		IsRecurrent:  m.IsRecurrent,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDataModel rejects rows whose category code is outside the closed set.
func FromDataModel(m *moneyflowDatamodel.MoneyFlow) (*MoneyFlow, error) {
	cat, err := category.Parse(m.CategoryCode)
	if err != nil {
		return nil, fmt.Errorf("money flow %d: %w", m.ID, err)
	}
	return &MoneyFlow{
		ID:          m.ID,
		Name:        m.Name,
		Date:        m.Date,
		Amount:      m.Amount,
		IsExpense:   m.IsExpense,
		Category:    cat,
		IsRecurrent: m.IsRecurrent,
		CreatedAt:   m.CreatedAt,
	}, nil
}

func FromDataModelSlice(rows []*moneyflowDatamodel.MoneyFlow) ([]*MoneyFlow, error) {
	result := make([]*MoneyFlow, len(rows))
	for i, row := range rows {
		flow, err := FromDataModel(row)
		if err != nil {
			return nil, err
		}
		result[i] = flow
	}
	return result, nil
}
