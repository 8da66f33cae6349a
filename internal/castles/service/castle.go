package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	castleserrors "castlehire/internal/castles/errors"
	"castlehire/internal/castles/repository"
	"castlehire/internal/castles/validator"
	"castlehire/pkg/config"
	apperrors "castlehire/pkg/errors"
	"castlehire/pkg/model"
	"castlehire/pkg/sanitizer"
)

type CastleService interface {
	Create(ctx context.Context, castle *model.Castle) error
	GetByID(ctx context.Context, id string) (*model.Castle, error)
	GetBySlug(ctx context.Context, slug string) (*model.Castle, error)
	GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Castle, int64, error)
	Update(ctx context.Context, id string, updates *model.CastleUpdate) (*model.Castle, error)
	Delete(ctx context.Context, id string) error
}

type castleService struct {
	repo      repository.CastleRepository
	validator *validator.CastleValidator
	cfg       *config.Config
}

func NewCastleService(repo repository.CastleRepository, castleValidator *validator.CastleValidator, cfg *config.Config) CastleService {
	return &castleService{
		repo:      repo,
		validator: castleValidator,
		cfg:       cfg,
	}
}

func (s *castleService) Create(ctx context.Context, castle *model.Castle) error {
	s.sanitize(castle)
	if castle.Slug == "" {
		castle.Slug = sanitizer.Slugify(castle.Name)
	}
	castle.Active = true

	if err := s.validator.Validate(castle); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, castle); err != nil {
		if errors.Is(err, castleserrors.ErrDuplicateSlug) {
			return apperrors.Conflict(fmt.Sprintf("a castle with slug %s already exists", castle.Slug))
		}
		return apperrors.Internal("Failed to create castle", err)
	}

	s.cfg.Log.Info("Castle created", "castle_id", castle.ID, "slug", castle.Slug)
	return nil
}

func (s *castleService) GetByID(ctx context.Context, id string) (*model.Castle, error) {
	castle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return castle, nil
}

func (s *castleService) GetBySlug(ctx context.Context, slug string) (*model.Castle, error) {
	castle, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, s.mapRepoError(err, slug)
	}
	return castle, nil
}

func (s *castleService) GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Castle, int64, error) {
	var (
		wg       sync.WaitGroup
		castles  []*model.Castle
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		castles, findErr = s.repo.FindAll(ctx, activeOnly, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx, activeOnly)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to list castles", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count castles", countErr)
	}
	return castles, total, nil
}

// Update merges the admin-editable fields and revalidates the whole
// document. The slug never changes after creation; booking records and
// published links refer to it.
func (s *castleService) Update(ctx context.Context, id string, updates *model.CastleUpdate) (*model.Castle, error) {
	if err := s.validator.Validate(updates); err != nil {
		return nil, err
	}

	castle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	mergeCastleUpdates(castle, updates)
	s.sanitize(castle)

	if err := s.validator.Validate(castle); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, id, castle); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	s.cfg.Log.Info("Castle updated", "castle_id", id)
	return castle, nil
}

func (s *castleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return s.mapRepoError(err, id)
	}
	s.cfg.Log.Info("Castle deactivated", "castle_id", id)
	return nil
}

func (s *castleService) sanitize(castle *model.Castle) {
	castle.Name = sanitizer.NormalizeCastleName(castle.Name)
	castle.Slug = sanitizer.Slugify(castle.Slug)
	castle.Theme = sanitizer.TrimAndNormalize(castle.Theme)
	castle.Dimensions = sanitizer.TrimAndNormalize(castle.Dimensions)
	castle.AvailableDays = sanitizer.SanitizeSlice(castle.AvailableDays, sanitizer.TrimAndNormalize)
}

func (s *castleService) mapRepoError(err error, ref string) error {
	switch {
	case errors.Is(err, castleserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Castle", ref)
	case errors.Is(err, castleserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("invalid castle id: %s", ref))
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Castle storage failure", err)
	}
}

func mergeCastleUpdates(castle *model.Castle, updates *model.CastleUpdate) {
	if updates == nil {
		return
	}
	if updates.Name != "" {
		castle.Name = updates.Name
	}
	if updates.Theme != "" {
		castle.Theme = updates.Theme
	}
	if updates.BasePrice != nil {
		castle.BasePrice = *updates.BasePrice
	}
	if updates.Dimensions != "" {
		castle.Dimensions = updates.Dimensions
	}
	if updates.Capacity != nil {
		castle.Capacity = *updates.Capacity
	}
	if updates.AvailableDays != nil {
		castle.AvailableDays = *updates.AvailableDays
	}
	if updates.HireWindow != nil {
		castle.HireWindow = updates.HireWindow
	}
	if updates.Active != nil {
		castle.Active = *updates.Active
	}
}
