package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/invensync/invensync/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// GormItemRepositoryWithTracing wraps GormItemRepository with tracing
type GormItemRepositoryWithTracing struct {
	*GormItemRepository
}

// NewGormItemRepositoryWithTracing creates a new repository with tracing
func NewGormItemRepositoryWithTracing(db *gorm.DB) *GormItemRepositoryWithTracing {
	return &GormItemRepositoryWithTracing{
		GormItemRepository: NewGormItemRepository(db),
	}
}

// CreateWithContext traces item creation
func (r *GormItemRepositoryWithTracing) CreateWithContext(ctx context.Context, item *domain.InventoryItem) error {
	_, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("item.owner_id", item.OwnerID),
			attribute.String("item.name", item.Name),
			attribute.String("item.category", item.Category),
		),
	)
	defer span.End()

	err := r.GormItemRepository.Create(item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("item.id", item.ID))
	return nil
}

// FindByOwnerWithContext traces the owner snapshot fetch
func (r *GormItemRepositoryWithTracing) FindByOwnerWithContext(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	_, span := tracer.Start(ctx, "repository.FindByOwner",
		trace.WithAttributes(
			attribute.String("item.owner_id", ownerID),
		),
	)
	defer span.End()

	items, err := r.GormItemRepository.FindByOwner(ownerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

// FindExpiringWithContext traces the expiring-items fetch
func (r *GormItemRepositoryWithTracing) FindExpiringWithContext(ctx context.Context, ownerID string, threshold int) ([]domain.InventoryItem, error) {
	_, span := tracer.Start(ctx, "repository.FindExpiring",
		trace.WithAttributes(
			attribute.String("item.owner_id", ownerID),
			attribute.Int("query.threshold", threshold),
		),
	)
	defer span.End()

	items, err := r.GormItemRepository.FindExpiring(ownerID, threshold)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

// UpdateWithContext traces a per-item update
func (r *GormItemRepositoryWithTracing) UpdateWithContext(ctx context.Context, item *domain.InventoryItem) error {
	_, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.String("item.id", item.ID),
			attribute.String("item.status", string(item.Status)),
		),
	)
	defer span.End()

	err := r.GormItemRepository.Update(item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// DeleteWithContext traces item deletion
func (r *GormItemRepositoryWithTracing) DeleteWithContext(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(
			attribute.String("item.id", id),
		),
	)
	defer span.End()

	err := r.GormItemRepository.Delete(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
