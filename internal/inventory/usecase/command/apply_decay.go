package command

import (
	"context"
	"fmt"
	"time"

	"github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/pkg/logger"
)

// ExpiryAlerter receives items that crossed the proactive alert
// threshold during a decay pass. A nil alerter disables alerts.
type ExpiryAlerter interface {
	ItemExpiring(ctx context.Context, item domain.InventoryItem) error
}

// ApplyDecayHandler walks an owner's items once and applies elapsed-time
// decay to each. Each item's own UpdatedAt is the idempotence guard:
// a pass advances it to now, so a second pass with the same now observes
// less than one elapsed day and mutates nothing. The handler never
// retries; a failed per-item update keeps its old UpdatedAt and is
// picked up by the next natural invocation.
type ApplyDecayHandler struct {
	repo    domain.ItemRepository
	alerter ExpiryAlerter
}

// NewApplyDecayHandler creates a new decay handler without alerts
func NewApplyDecayHandler(repo domain.ItemRepository) *ApplyDecayHandler {
	return &ApplyDecayHandler{repo: repo}
}

// NewApplyDecayHandlerWithAlerts creates a decay handler that emits
// expiring-item alerts after successful mutations
func NewApplyDecayHandlerWithAlerts(repo domain.ItemRepository, alerter ExpiryAlerter) *ApplyDecayHandler {
	return &ApplyDecayHandler{repo: repo, alerter: alerter}
}

// Handle applies decay to every expiring item the owner holds and
// returns the number of items actually mutated. Per-item update
// failures do not abort the batch; they are reported together as a
// *domain.PartialDecayError alongside the successful count.
func (h *ApplyDecayHandler) Handle(ctx context.Context, ownerID string, now time.Time) (int, error) {
	if ownerID == "" {
		return 0, &domain.ValidationError{Field: "owner_id", Reason: "is required"}
	}

	items, err := h.findByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	mutated := 0
	var failedIDs []string

	for i := range items {
		// Cancellation stops further updates; already-applied decay is
		// consistent on its own because each item update is self-contained.
		if ctx.Err() != nil {
			break
		}

		item := items[i]
		if !item.Expires() {
			continue
		}

		newDays, status, changed := domain.DecayStep(now, item.UpdatedAt, *item.ExpiryDays)
		if !changed {
			continue
		}

		item.ExpiryDays = &newDays
		item.Status = status
		item.UpdatedAt = now

		if err := h.update(ctx, &item); err != nil {
			logger.Error(ctx).
				Err(err).
				Str("item_id", item.ID).
				Str("owner_id", ownerID).
				Msg("Failed to persist decayed item")
			failedIDs = append(failedIDs, item.ID)
			continue
		}
		mutated++

		if h.alerter != nil && newDays <= domain.AlertExpiryThreshold {
			if err := h.alerter.ItemExpiring(ctx, item); err != nil {
				logger.Warn(ctx).
					Err(err).
					Str("item_id", item.ID).
					Msg("Failed to publish expiring-item alert")
			}
		}
	}

	logger.Debug(ctx).
		Str("owner_id", ownerID).
		Int("mutated", mutated).
		Int("failed", len(failedIDs)).
		Msg("Decay pass completed")

	if len(failedIDs) > 0 {
		return mutated, &domain.PartialDecayError{Mutated: mutated, FailedIDs: failedIDs}
	}
	return mutated, nil
}

// findByOwner prefers the traced fetch when the store provides one
func (h *ApplyDecayHandler) findByOwner(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	if repo, ok := h.repo.(interface {
		FindByOwnerWithContext(context.Context, string) ([]domain.InventoryItem, error)
	}); ok {
		return repo.FindByOwnerWithContext(ctx, ownerID)
	}
	return h.repo.FindByOwner(ownerID)
}

// update prefers the traced update when the store provides one
func (h *ApplyDecayHandler) update(ctx context.Context, item *domain.InventoryItem) error {
	if repo, ok := h.repo.(interface {
		UpdateWithContext(context.Context, *domain.InventoryItem) error
	}); ok {
		return repo.UpdateWithContext(ctx, item)
	}
	return h.repo.Update(item)
}
