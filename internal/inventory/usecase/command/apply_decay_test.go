package command

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/invensync/invensync/internal/inventory/domain"
)

// fakeRepo is an in-memory ItemRepository for handler tests. failUpdate
// lists item IDs whose Update call should fail.
type fakeRepo struct {
	mu         sync.Mutex
	items      map[string]domain.InventoryItem
	order      []string
	failUpdate map[string]bool
	findErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:      make(map[string]domain.InventoryItem),
		failUpdate: make(map[string]bool),
	}
}

func (r *fakeRepo) Create(item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	r.order = append(r.order, item.ID)
	return nil
}

func (r *fakeRepo) FindByID(id string) (*domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

func (r *fakeRepo) FindByOwner(ownerID string) ([]domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.InventoryItem
	for _, id := range r.order {
		if item := r.items[id]; item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindExpiring(ownerID string, threshold int) ([]domain.InventoryItem, error) {
	items, err := r.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return domain.ExpiringSoon(items, threshold), nil
}

func (r *fakeRepo) FindByCategory(ownerID, category string) ([]domain.InventoryItem, error) {
	items, err := r.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	var out []domain.InventoryItem
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate[item.ID] {
		return errors.New("update refused")
	}
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) Count(ownerID string) (int64, error) {
	items, err := r.FindByOwner(ownerID)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

type recordingAlerter struct {
	mu    sync.Mutex
	items []domain.InventoryItem
}

func (a *recordingAlerter) ItemExpiring(_ context.Context, item domain.InventoryItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, item)
	return nil
}

func intp(v int) *int { return &v }

func seedItem(t *testing.T, repo *fakeRepo, id, owner string, days *int, updatedAt time.Time) {
	t.Helper()
	err := repo.Create(&domain.InventoryItem{
		ID:         id,
		OwnerID:    owner,
		Name:       id,
		Quantity:   1,
		Unit:       "pcs",
		ExpiryDays: days,
		Status:     domain.Classify(days),
		CreatedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestApplyDecay(t *testing.T) {
	now := time.Date(2026, time.April, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedItem(t, repo, "milk", "owner-1", intp(7), now.Add(-3*24*time.Hour))
	seedItem(t, repo, "bread", "owner-1", intp(1), now.Add(-5*24*time.Hour))
	seedItem(t, repo, "salt", "owner-1", nil, now.Add(-30*24*time.Hour))
	seedItem(t, repo, "fresh", "owner-1", intp(9), now.Add(-6*time.Hour))
	seedItem(t, repo, "other", "owner-2", intp(2), now.Add(-2*24*time.Hour))

	handler := NewApplyDecayHandler(repo)
	mutated, err := handler.Handle(context.Background(), "owner-1", now)
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if mutated != 2 {
		t.Fatalf("mutated = %d, want 2", mutated)
	}

	milk, _ := repo.FindByID("milk")
	if *milk.ExpiryDays != 4 || milk.Status != domain.StatusWarning {
		t.Fatalf("milk: days=%d status=%q", *milk.ExpiryDays, milk.Status)
	}
	if !milk.UpdatedAt.Equal(now) {
		t.Fatalf("milk UpdatedAt not advanced: %v", milk.UpdatedAt)
	}

	bread, _ := repo.FindByID("bread")
	if *bread.ExpiryDays != 0 || bread.Status != domain.StatusBad {
		t.Fatalf("bread: days=%d status=%q", *bread.ExpiryDays, bread.Status)
	}

	salt, _ := repo.FindByID("salt")
	if salt.ExpiryDays != nil || salt.Status != domain.StatusNone {
		t.Fatalf("non-expiring item was touched: %+v", salt)
	}

	fresh, _ := repo.FindByID("fresh")
	if *fresh.ExpiryDays != 9 {
		t.Fatalf("item under a day old was decayed: days=%d", *fresh.ExpiryDays)
	}

	// other owner untouched
	other, _ := repo.FindByID("other")
	if *other.ExpiryDays != 2 {
		t.Fatalf("foreign owner's item was decayed: days=%d", *other.ExpiryDays)
	}
}

func TestApplyDecayIsIdempotentPerDay(t *testing.T) {
	now := time.Date(2026, time.April, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedItem(t, repo, "milk", "owner-1", intp(7), now.Add(-3*24*time.Hour))

	handler := NewApplyDecayHandler(repo)
	if mutated, err := handler.Handle(context.Background(), "owner-1", now); err != nil || mutated != 1 {
		t.Fatalf("first pass: mutated=%d err=%v", mutated, err)
	}
	if mutated, err := handler.Handle(context.Background(), "owner-1", now); err != nil || mutated != 0 {
		t.Fatalf("second pass: mutated=%d err=%v", mutated, err)
	}

	milk, _ := repo.FindByID("milk")
	if *milk.ExpiryDays != 4 {
		t.Fatalf("double decay applied: days=%d", *milk.ExpiryDays)
	}
}

func TestApplyDecayPartialFailure(t *testing.T) {
	now := time.Date(2026, time.April, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedItem(t, repo, "ok-1", "owner-1", intp(6), now.Add(-24*time.Hour))
	seedItem(t, repo, "broken", "owner-1", intp(6), now.Add(-24*time.Hour))
	seedItem(t, repo, "ok-2", "owner-1", intp(6), now.Add(-24*time.Hour))
	repo.failUpdate["broken"] = true

	handler := NewApplyDecayHandler(repo)
	mutated, err := handler.Handle(context.Background(), "owner-1", now)
	if mutated != 2 {
		t.Fatalf("mutated = %d, want 2", mutated)
	}

	var partial *domain.PartialDecayError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialDecayError, got %v", err)
	}
	if partial.Mutated != 2 {
		t.Fatalf("partial.Mutated = %d, want 2", partial.Mutated)
	}
	sort.Strings(partial.FailedIDs)
	if len(partial.FailedIDs) != 1 || partial.FailedIDs[0] != "broken" {
		t.Fatalf("FailedIDs = %v", partial.FailedIDs)
	}

	// the failed item keeps its old anchor so the next pass retries it
	broken, _ := repo.FindByID("broken")
	if *broken.ExpiryDays != 6 {
		t.Fatalf("failed item was mutated: days=%d", *broken.ExpiryDays)
	}
	if broken.UpdatedAt.Equal(now) {
		t.Fatal("failed item's UpdatedAt was advanced")
	}
}

func TestApplyDecayStoreUnavailable(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = errors.New("connection refused")

	handler := NewApplyDecayHandler(repo)
	_, err := handler.Handle(context.Background(), "owner-1", time.Now())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestApplyDecayEmptyOwner(t *testing.T) {
	handler := NewApplyDecayHandler(newFakeRepo())
	_, err := handler.Handle(context.Background(), "", time.Now())
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestApplyDecayAlerts(t *testing.T) {
	now := time.Date(2026, time.April, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedItem(t, repo, "near", "owner-1", intp(4), now.Add(-24*time.Hour))
	seedItem(t, repo, "far", "owner-1", intp(10), now.Add(-24*time.Hour))

	alerter := &recordingAlerter{}
	handler := NewApplyDecayHandlerWithAlerts(repo, alerter)
	if _, err := handler.Handle(context.Background(), "owner-1", now); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	// near drops to 3 and crosses the alert threshold; far drops to 9.
	if len(alerter.items) != 1 || alerter.items[0].ID != "near" {
		t.Fatalf("alerted items = %+v", alerter.items)
	}
	if *alerter.items[0].ExpiryDays != 3 {
		t.Fatalf("alert carries stale days: %d", *alerter.items[0].ExpiryDays)
	}
}

func TestApplyDecayCancelledContext(t *testing.T) {
	now := time.Date(2026, time.April, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedItem(t, repo, "a", "owner-1", intp(6), now.Add(-24*time.Hour))
	seedItem(t, repo, "b", "owner-1", intp(6), now.Add(-24*time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := NewApplyDecayHandler(repo)
	mutated, err := handler.Handle(ctx, "owner-1", now)
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if mutated != 0 {
		t.Fatalf("mutated = %d after cancellation, want 0", mutated)
	}
}

func TestApplyDecayConcurrentOwners(t *testing.T) {
	now := time.Date(2026, time.April, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	owners := []string{"owner-1", "owner-2", "owner-3", "owner-4"}
	for _, owner := range owners {
		seedItem(t, repo, owner+"-item", owner, intp(7), now.Add(-2*24*time.Hour))
	}

	handler := NewApplyDecayHandler(repo)
	var wg sync.WaitGroup
	results := make([]int, len(owners))
	for i, owner := range owners {
		wg.Add(1)
		go func(i int, owner string) {
			defer wg.Done()
			mutated, err := handler.Handle(context.Background(), owner, now)
			if err != nil {
				t.Errorf("owner %s: %v", owner, err)
			}
			results[i] = mutated
		}(i, owner)
	}
	wg.Wait()

	for i, owner := range owners {
		if results[i] != 1 {
			t.Fatalf("owner %s mutated %d items, want 1", owner, results[i])
		}
		item, _ := repo.FindByID(owner + "-item")
		if *item.ExpiryDays != 5 {
			t.Fatalf("owner %s item days = %d, want 5", owner, *item.ExpiryDays)
		}
	}
}
