package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/savings/internal"
	moneyflowDatamodel "github.com/frahmantamala/savings/internal/core/datamodel/moneyflow"
	"github.com/frahmantamala/savings/internal/moneyflow"
	"gorm.io/gorm"
)

// MoneyFlowRepository implements moneyflow.RepositoryAPI using GORM. It runs
// unchanged on the postgres and sqlite dialects.
type MoneyFlowRepository struct {
	db *gorm.DB
}

func NewMoneyFlowRepository(db *gorm.DB) moneyflow.RepositoryAPI {
	return &MoneyFlowRepository{db: db}
}

func (r *MoneyFlowRepository) Create(ctx context.Context, flow *moneyflowDatamodel.MoneyFlow) error {
	return r.db.WithContext(ctx).Create(flow).Error
}

func (r *MoneyFlowRepository) Delete(ctx context.Context, id int64) (*moneyflowDatamodel.MoneyFlow, error) {
	var deleted moneyflowDatamodel.MoneyFlow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&deleted).Error; err != nil {
			return err
		}
		return tx.Delete(&moneyflowDatamodel.MoneyFlow{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMoneyFlowNotFound
		}
		return nil, err
	}
	return &deleted, nil
}

func (r *MoneyFlowRepository) GetByID(ctx context.Context, id int64) (*moneyflowDatamodel.MoneyFlow, error) {
	var flow moneyflowDatamodel.MoneyFlow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&flow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMoneyFlowNotFound
		}
		return nil, err
	}
	return &flow, nil
}

// GetAll returns the matching flows, newest first.
func (r *MoneyFlowRepository) GetAll(ctx context.Context, filter moneyflow.ListFilter) ([]*moneyflowDatamodel.MoneyFlow, error) {
	q := r.db.WithContext(ctx).Model(&moneyflowDatamodel.MoneyFlow{})
	switch filter.Type {
	case moneyflow.FlowTypeExpense:
		q = q.Where("is_expense = ?", true)
	case moneyflow.FlowTypeEarning:
		q = q.Where("is_expense = ?", false)
	}

	var flows []*moneyflowDatamodel.MoneyFlow
	err := q.Order("flow_date DESC").Order("id DESC").Find(&flows).Error
	return flows, err
}
