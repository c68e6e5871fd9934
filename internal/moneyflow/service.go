package moneyflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/savings/internal"
	moneyflowDatamodel "github.com/frahmantamala/savings/internal/core/datamodel/moneyflow"
	"github.com/frahmantamala/savings/internal/core/events"
)

// RepositoryAPI is the ledger store.
type RepositoryAPI interface {
	Create(ctx context.Context, flow *moneyflowDatamodel.MoneyFlow) error
	// Delete removes the row and returns it, or internal.ErrMoneyFlowNotFound.
	Delete(ctx context.Context, id int64) (*moneyflowDatamodel.MoneyFlow, error)
	GetByID(ctx context.Context, id int64) (*moneyflowDatamodel.MoneyFlow, error)
	GetAll(ctx context.Context, filter ListFilter) ([]*moneyflowDatamodel.MoneyFlow, error)
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

// Service owns ledger mutations. Create and Delete are serialized and publish
// their change event before returning, so subscribers have observed the
// mutation by the time the caller sees the result.
type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	mu        sync.Mutex
}

func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to default submission dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, dto CreateMoneyFlowDTO) (*MoneyFlow, error) {
	flow, err := NewMoneyFlow(dto, s.now())
	if err != nil {
		s.logger.Warn("money flow validation failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := ToDataModel(flow)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create money flow", "error", err)
		return nil, internal.NewInternalError("failed to create money flow", err)
	}
	flow.ID = row.ID
	flow.CreatedAt = row.CreatedAt

	s.publish(ctx, events.NewMoneyFlowInsertedEvent(flow.change()))

	s.logger.Info("money flow created",
		"money_flow_id", flow.ID,
		"type", flow.Type(),
		"amount", flow.Amount.String(),
		"category", flow.Category.String())

	return flow, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrMoneyFlowNotFound) {
			return internal.ErrMoneyFlowNotFound
		}
		s.logger.Error("failed to delete money flow", "error", err, "money_flow_id", id)
		return internal.NewInternalError("failed to delete money flow", err)
	}

	change := events.MoneyFlowChange{MoneyFlowID: id}
	if flow, err := FromDataModel(row); err != nil {
		s.logger.Warn("deleted money flow could not be decoded, publishing id only",
			"money_flow_id", id,
			"error", err)
	} else {
		change = flow.change()
	}
	s.publish(ctx, events.NewMoneyFlowDeletedEvent(change))

	s.logger.Info("money flow deleted", "money_flow_id", id)
	return nil
}

// publish delivers the event to subscribers. The mutation is already
// committed, so subscriber failures are logged rather than returned.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Error("ledger change subscribers failed",
			"event_type", event.EventType(),
			"error", err)
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*MoneyFlow, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrMoneyFlowNotFound) {
			return nil, internal.ErrMoneyFlowNotFound
		}
		s.logger.Error("failed to get money flow", "error", err, "money_flow_id", id)
		return nil, internal.NewInternalError("failed to get money flow", err)
	}
	return FromDataModel(row)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*MoneyFlow, error) {
	rows, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list money flows", "error", err)
		return nil, internal.NewInternalError("failed to list money flows", err)
	}
	return FromDataModelSlice(rows)
}

// All returns every recorded flow.
func (s *Service) All(ctx context.Context) ([]*MoneyFlow, error) {
	return s.List(ctx, ListFilter{})
}
