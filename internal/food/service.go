package food

import (
	"context"
	"fmt"

	"canteen-be/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*Food, error)
	Get(ctx context.Context, id uuid.UUID) (*Food, error)
	List(ctx context.Context) ([]*Food, error)
	ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Food, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Food, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*Food, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	f := &Food{
		ID:        uuid.New(),
		Name:      in.Name,
		CanteenID: in.CanteenID,
		Price:     in.Price,
		NonVeg:    in.NonVeg,
		Toppings:  nonNil(in.Toppings),
		Tags:      nonNil(in.Tags),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("food registered",
		zap.String("layer", "service"),
		zap.String("food_id", f.ID.String()),
		zap.String("canteen_id", f.CanteenID.String()),
	)
	return f, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Food, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Food, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByCanteen(ctx context.Context, canteenID uuid.UUID) ([]*Food, error) {
	return s.repo.ListByCanteen(ctx, canteenID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Food, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(f)

	if err := s.repo.Save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("food deleted",
		zap.String("layer", "service"),
		zap.String("food_id", id.String()),
	)
	return nil
}
