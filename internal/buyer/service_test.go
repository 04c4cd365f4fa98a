package buyer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *Buyer) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Buyer), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockRepository) AdjustWallet(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ToggleFavorite(ctx context.Context, buyerID, foodID uuid.UUID) (bool, error) {
	args := m.Called(ctx, buyerID, foodID)
	return args.Bool(0), args.Error(1)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("Create", ctx, mock.AnythingOfType("*buyer.Buyer")).Return(nil)

		b, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: "a@x.com", ContactNumber: "1", Age: 20, Wallet: 100})
		require.NoError(t, err)
		assert.Equal(t, int64(100), b.Wallet)
		assert.NotEqual(t, uuid.Nil, b.ID)
	})

	t.Run("NegativeWallet", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: "a@x.com", ContactNumber: "1", Wallet: -1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_ToggleFavorite(t *testing.T) {
	ctx := context.Background()
	buyerID, foodID := uuid.New(), uuid.New()

	t.Run("UnknownBuyer", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByID", ctx, buyerID).Return(nil, ErrBuyerNotFound)

		_, err := svc.ToggleFavorite(ctx, buyerID, foodID)
		assert.ErrorIs(t, err, ErrBuyerNotFound)
		repo.AssertNotCalled(t, "ToggleFavorite", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Toggles", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("GetByID", ctx, buyerID).Return(&Buyer{ID: buyerID}, nil)
		repo.On("ToggleFavorite", ctx, buyerID, foodID).Return(true, nil)

		fav, err := svc.ToggleFavorite(ctx, buyerID, foodID)
		require.NoError(t, err)
		assert.True(t, fav)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("InvalidEmail", func(t *testing.T) {
		repo := new(MockRepository)
		_, err := NewService(repo).Update(ctx, id, UpdateInput{Name: "Asha", Email: "nope", ContactNumber: "1"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ReturnsStoredProfile", func(t *testing.T) {
		repo := new(MockRepository)
		in := UpdateInput{Name: "Asha R", Email: "asha@example.com", ContactNumber: "2", Age: 21}
		repo.On("Update", ctx, id, in).Return(nil)
		repo.On("GetByID", ctx, id).Return(&Buyer{ID: id, Name: "Asha R", Wallet: 300}, nil)

		b, err := NewService(repo).Update(ctx, id, in)
		require.NoError(t, err)
		assert.Equal(t, "Asha R", b.Name)
		assert.Equal(t, int64(300), b.Wallet)
		repo.AssertExpectations(t)
	})

	t.Run("Missing", func(t *testing.T) {
		repo := new(MockRepository)
		in := UpdateInput{Name: "Asha", Email: "asha@example.com", ContactNumber: "2"}
		repo.On("Update", ctx, id, in).Return(ErrBuyerNotFound)

		_, err := NewService(repo).Update(ctx, id, in)
		assert.ErrorIs(t, err, ErrBuyerNotFound)
	})
}

func TestService_AdjustWallet(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name    string
		delta   int64
		balance int64
		repoErr error
		wantErr error
	}{
		{"TopUp", 200, 500, nil, nil},
		{"Spend", -100, 200, nil, nil},
		{"Overdraw", -1000, 0, ErrInsufficientFunds, ErrInsufficientFunds},
		{"Unknown", 50, 0, ErrBuyerNotFound, ErrBuyerNotFound},
		{"Zero", 0, 0, nil, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.delta != 0 {
				repo.On("AdjustWallet", ctx, id, tt.delta).Return(tt.balance, tt.repoErr)
			}

			balance, err := NewService(repo).AdjustWallet(ctx, id, tt.delta)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.balance, balance)
			repo.AssertExpectations(t)
		})
	}
}
