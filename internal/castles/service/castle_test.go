package service

import (
	"context"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	castleserrors "castlehire/internal/castles/errors"
	"castlehire/internal/castles/validator"
	"castlehire/pkg/config"
	apperrors "castlehire/pkg/errors"
	"castlehire/pkg/logger"
	"castlehire/pkg/model"
)

// Mock repository for testing
type mockCastleRepository struct {
	createFunc     func(ctx context.Context, castle *model.Castle) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Castle, error)
	updateFunc     func(ctx context.Context, id string, castle *model.Castle) (*mongo.UpdateResult, error)
	deactivateFunc func(ctx context.Context, id string) error
}

func (m *mockCastleRepository) Create(ctx context.Context, castle *model.Castle) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, castle)
	}
	castle.ID = "65f0000000000000000000aa"
	return nil
}

func (m *mockCastleRepository) FindByID(ctx context.Context, id string) (*model.Castle, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, castleserrors.ErrNotFound
}

func (m *mockCastleRepository) FindBySlug(ctx context.Context, slug string) (*model.Castle, error) {
	return nil, castleserrors.ErrNotFound
}

func (m *mockCastleRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Castle, error) {
	return []*model.Castle{}, nil
}

func (m *mockCastleRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	return 0, nil
}

func (m *mockCastleRepository) Update(ctx context.Context, id string, castle *model.Castle) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, castle)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockCastleRepository) Deactivate(ctx context.Context, id string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, id)
	}
	return nil
}

func newTestService(repo *mockCastleRepository) CastleService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatJSON,
			Service: "castles-test",
		}),
	}
	return NewCastleService(repo, validator.NewCastleValidator(), cfg)
}

func TestCreateGeneratesSlug(t *testing.T) {
	svc := newTestService(&mockCastleRepository{})

	castle := &model.Castle{
		Name:      "Princess Palace Deluxe",
		BasePrice: 95,
		Capacity:  10,
	}
	if err := svc.Create(context.Background(), castle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if castle.Slug != "princess-palace-deluxe" {
		t.Errorf("expected generated slug, got %q", castle.Slug)
	}
	if !castle.Active {
		t.Error("new castles must start active")
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	repo := &mockCastleRepository{
		createFunc: func(ctx context.Context, castle *model.Castle) error {
			return fmt.Errorf("%w: %s", castleserrors.ErrDuplicateSlug, castle.Slug)
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), &model.Castle{Name: "Jungle Adventure", BasePrice: 80, Capacity: 8})
	appErr := apperrors.AsAppError(err)
	if err == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestCreateRejectsInvalidCastle(t *testing.T) {
	created := false
	repo := &mockCastleRepository{
		createFunc: func(ctx context.Context, castle *model.Castle) error {
			created = true
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), &model.Castle{Name: "X", BasePrice: 0, Capacity: 0})
	appErr := apperrors.AsAppError(err)
	if err == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if created {
		t.Error("invalid castle must not reach the repository")
	}
}

func TestUpdateMergesAndKeepsSlug(t *testing.T) {
	stored := &model.Castle{
		ID:        "65f0000000000000000000aa",
		Name:      "Jungle Adventure",
		Slug:      "jungle-adventure",
		BasePrice: 80,
		Capacity:  8,
		Active:    true,
	}
	repo := &mockCastleRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Castle, error) {
			copied := *stored
			return &copied, nil
		},
	}
	svc := newTestService(repo)

	price := 95.0
	castle, err := svc.Update(context.Background(), stored.ID, &model.CastleUpdate{
		Name:      "Jungle Adventure XL",
		BasePrice: &price,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if castle.Name != "Jungle Adventure XL" || castle.BasePrice != 95 {
		t.Errorf("merge failed: %+v", castle)
	}
	if castle.Slug != "jungle-adventure" {
		t.Errorf("slug must not change on update, got %q", castle.Slug)
	}
	if castle.Capacity != 8 {
		t.Errorf("untouched fields must survive, got capacity %d", castle.Capacity)
	}
}

func TestUpdateUnknownCastle(t *testing.T) {
	svc := newTestService(&mockCastleRepository{})

	_, err := svc.Update(context.Background(), "65f0000000000000000000ff", &model.CastleUpdate{Name: "Anything"})
	appErr := apperrors.AsAppError(err)
	if err == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteDeactivates(t *testing.T) {
	var deactivated string
	repo := &mockCastleRepository{
		deactivateFunc: func(ctx context.Context, id string) error {
			deactivated = id
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), "65f0000000000000000000aa"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deactivated != "65f0000000000000000000aa" {
		t.Errorf("expected deactivation, got %q", deactivated)
	}
}
