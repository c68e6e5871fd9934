package moneyflow

import (
	"strings"
	"time"

	"github.com/frahmantamala/savings/internal"
	"github.com/frahmantamala/savings/internal/category"
	"github.com/frahmantamala/savings/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const (
	AmountScale   = 2
	MaxNameLength = 200
)

// MaxAmount is the largest amount a NUMERIC(14,2) column holds.
var MaxAmount = decimal.New(99999999999999, -AmountScale)

// CreateMoneyFlowDTO is the submission form. Flags left out default to true,
// and a missing date defaults to the submission time.
type CreateMoneyFlowDTO struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	IsExpense   *bool           `json:"is_expense,omitempty"`
	Category    int             `json:"category"`
	IsRecurrent *bool           `json:"is_recurrent,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// Normalize trims the name and rounds the amount to cents.
func (dto CreateMoneyFlowDTO) Normalize() CreateMoneyFlowDTO {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Amount = dto.Amount.Round(AmountScale)
	return dto
}

func (dto CreateMoneyFlowDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).
		NotBlank(internal.ErrCodeEmptyName).
		MaxLength(MaxNameLength)
	v.Field("amount", dto.Amount).
		Positive(internal.ErrCodeInvalidAmount).
		Max(MaxAmount, internal.ErrCodeInvalidAmount)
	v.Field("category", dto.Category).
		IntRange(category.MinCode, category.MaxCode, internal.ErrCodeInvalidCategory)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ListFilter narrows List; the zero value matches every flow.
type ListFilter struct {
	Type FlowType
}

type MoneyFlowResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Type         FlowType        `json:"type"`
	IsExpense    bool            `json:"is_expense"`
	Category     int             `json:"category"`
	CategoryInfo category.Info   `json:"category_info"`
	IsRecurrent  bool            `json:"is_recurrent"`
	CreatedAt    time.Time       `json:"created_at"`
}

type MoneyFlowsResponse struct {
	MoneyFlows []MoneyFlowResponse `json:"money_flows"`
	Count      int                 `json:"count"`
}

func ToResponses(flows []*MoneyFlow) []MoneyFlowResponse {
	out := make([]MoneyFlowResponse, len(flows))
	for i, f := range flows {
		out[i] = f.ToResponse()
	}
	return out
}
