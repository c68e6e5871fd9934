package moneyflow

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyFlow is the persisted row of a single ledger entry.
type MoneyFlow struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Name         string          `gorm:"column:name;not null"`
	Date         time.Time       `gorm:"column:flow_date;not null;index"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null"`
	IsExpense    bool            `gorm:"column:is_expense;not null"`
	CategoryCode int             `gorm:"column:category;not null"`
	IsRecurrent  bool            `gorm:"column:is_recurrent;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for GORM
func (MoneyFlow) TableName() string {
	return "money_flows"
}
