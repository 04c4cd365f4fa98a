package buyer

import (
	"context"
	"fmt"

	"canteen-be/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*Buyer, error)
	Get(ctx context.Context, id uuid.UUID) (*Buyer, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Buyer, error)
	AdjustWallet(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
	ToggleFavorite(ctx context.Context, buyerID, foodID uuid.UUID) (bool, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*Buyer, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	b := &Buyer{
		ID:            uuid.New(),
		Name:          in.Name,
		Email:         in.Email,
		ContactNumber: in.ContactNumber,
		Age:           in.Age,
		Batch:         in.Batch,
		Wallet:        in.Wallet,
		Favorites:     []uuid.UUID{},
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("buyer registered",
		zap.String("layer", "service"),
		zap.String("buyer_id", b.ID.String()),
	)
	return b, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Buyer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Buyer, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repo.Update(ctx, id, in); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) AdjustWallet(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdjustWallet"),
		zap.String("buyer_id", id.String()),
	)

	if delta == 0 {
		return 0, fmt.Errorf("%w: delta must not be zero", ErrInvalidInput)
	}

	balance, err := s.repo.AdjustWallet(ctx, id, delta)
	if err != nil {
		log.Warn("wallet adjustment refused", zap.Int64("delta", delta), zap.Error(err))
		return 0, err
	}

	log.Info("wallet adjusted", zap.Int64("delta", delta), zap.Int64("balance", balance))
	return balance, nil
}

func (s *service) ToggleFavorite(ctx context.Context, buyerID, foodID uuid.UUID) (bool, error) {
	// surface a missing buyer before touching favorites
	if _, err := s.repo.GetByID(ctx, buyerID); err != nil {
		return false, err
	}
	return s.repo.ToggleFavorite(ctx, buyerID, foodID)
}
