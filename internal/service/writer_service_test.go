package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"market-stall/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validDraft() model.ProductDraft {
	return model.ProductDraft{
		Title:       "Phone",
		Description: "Unlocked 128GB handset",
		Price:       "150.50",
		StockCount:  "3",
		CategoryID:  "electronics",
		Condition:   model.ConditionNew,
		Images:      []string{},
	}
}

func newTestWriter(productRepo *MockProductRepository, categoryRepo *MockCategoryRepository, now time.Time) ProductWriter {
	w := NewProductWriter(productRepo, categoryRepo, zerolog.Nop()).(*productWriter)
	w.now = func() time.Time { return now }
	return w
}

func TestProductWriter_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		writer := newTestWriter(productRepo, categoryRepo, now)

		categoryRepo.On("GetByID", ctx, "electronics").
			Return(&model.Category{ID: "electronics", Name: "Electronics"}, nil)
		productRepo.On("Insert", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

		product, err := writer.Create(ctx, "S1", validDraft())

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, "S1", product.SellerID)
		assert.Equal(t, "Phone", product.Title)
		assert.Equal(t, 150.50, product.Price)
		assert.Equal(t, 3, product.StockCount)
		assert.Equal(t, model.StatusActive, product.Status)
		assert.Equal(t, now, product.CreatedAt)
		assert.Equal(t, now, product.UpdatedAt)

		productRepo.AssertExpectations(t)
		categoryRepo.AssertExpectations(t)
	})

	t.Run("Validation failures perform no write", func(t *testing.T) {
		tests := []struct {
			name          string
			mutate        func(*model.ProductDraft)
			sellerID      string
			expectedField string
		}{
			{
				name:          "Empty title",
				mutate:        func(d *model.ProductDraft) { d.Title = "  " },
				sellerID:      "S1",
				expectedField: "title",
			},
			{
				name:          "Unparseable price",
				mutate:        func(d *model.ProductDraft) { d.Price = "abc" },
				sellerID:      "S1",
				expectedField: "price",
			},
			{
				name:          "Negative price",
				mutate:        func(d *model.ProductDraft) { d.Price = "-1" },
				sellerID:      "S1",
				expectedField: "price",
			},
			{
				name:          "Fractional stock count",
				mutate:        func(d *model.ProductDraft) { d.StockCount = "2.5" },
				sellerID:      "S1",
				expectedField: "stockCount",
			},
			{
				name:          "Negative stock count",
				mutate:        func(d *model.ProductDraft) { d.StockCount = "-3" },
				sellerID:      "S1",
				expectedField: "stockCount",
			},
			{
				name:          "Unknown condition",
				mutate:        func(d *model.ProductDraft) { d.Condition = "mint" },
				sellerID:      "S1",
				expectedField: "condition",
			},
			{
				name: "Too many images",
				mutate: func(d *model.ProductDraft) {
					d.Images = []string{"a", "b", "c", "d", "e", "f"}
				},
				sellerID:      "S1",
				expectedField: "images",
			},
			{
				name:          "Missing category",
				mutate:        func(d *model.ProductDraft) { d.CategoryID = "" },
				sellerID:      "S1",
				expectedField: "categoryId",
			},
			{
				name:          "Unknown category",
				mutate:        func(d *model.ProductDraft) { d.CategoryID = "unknown" },
				sellerID:      "S1",
				expectedField: "categoryId",
			},
			{
				name:          "Missing seller identity",
				mutate:        func(d *model.ProductDraft) {},
				sellerID:      "",
				expectedField: "sellerId",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				productRepo := new(MockProductRepository)
				categoryRepo := new(MockCategoryRepository)
				writer := newTestWriter(productRepo, categoryRepo, now)

				categoryRepo.On("GetByID", ctx, "electronics").
					Return(&model.Category{ID: "electronics"}, nil).Maybe()
				categoryRepo.On("GetByID", ctx, "unknown").Return(nil, nil).Maybe()

				draft := validDraft()
				tt.mutate(&draft)

				product, err := writer.Create(ctx, tt.sellerID, draft)

				require.Error(t, err)
				assert.Nil(t, product)

				var de *model.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, model.ErrCodeValidationFailed, de.Code)
				assert.Equal(t, tt.expectedField, de.Field)

				productRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Repository write failure passes through", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		writer := newTestWriter(productRepo, categoryRepo, now)

		categoryRepo.On("GetByID", ctx, "electronics").
			Return(&model.Category{ID: "electronics"}, nil)
		productRepo.On("Insert", ctx, mock.AnythingOfType("*model.Product")).
			Return(model.ErrWriteConflict)

		product, err := writer.Create(ctx, "S1", validDraft())

		require.ErrorIs(t, err, model.ErrWriteConflict)
		assert.Nil(t, product)
	})
}

func TestProductWriter_Update(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	productID := uuid.New()

	existing := &model.ProductWithSeller{
		Product: model.Product{
			ID:         productID,
			SellerID:   "S1",
			Title:      "Phone",
			Price:      150.50,
			CategoryID: "electronics",
			StockCount: 3,
			Condition:  model.ConditionNew,
			Images:     []string{},
			Status:     model.StatusInactive,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
		},
	}

	t.Run("Owner update preserves identity and creation timestamp", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		writer := newTestWriter(productRepo, categoryRepo, now)

		categoryRepo.On("GetByID", ctx, "electronics").
			Return(&model.Category{ID: "electronics"}, nil)
		productRepo.On("GetByID", ctx, productID).Return(existing, nil)

		var updated *model.Product
		productRepo.On("Update", ctx, mock.AnythingOfType("*model.Product"), "S1").
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*model.Product)
			}).
			Return(nil)

		draft := validDraft()
		draft.Title = "Phone (refurbished)"
		draft.Price = "120.00"

		product, err := writer.Update(ctx, productID, "S1", draft)

		require.NoError(t, err)
		require.NotNil(t, product)
		require.NotNil(t, updated)

		assert.Equal(t, productID, updated.ID)
		assert.Equal(t, "S1", updated.SellerID)
		assert.Equal(t, createdAt, updated.CreatedAt)
		assert.Equal(t, now, updated.UpdatedAt)
		assert.Equal(t, "Phone (refurbished)", updated.Title)
		assert.Equal(t, 120.00, updated.Price)
		// Draft carried no status, so the stored one is kept.
		assert.Equal(t, model.StatusInactive, updated.Status)

		productRepo.AssertExpectations(t)
	})

	t.Run("Status transition applied when submitted", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		writer := newTestWriter(productRepo, categoryRepo, now)

		categoryRepo.On("GetByID", ctx, "electronics").
			Return(&model.Category{ID: "electronics"}, nil)
		productRepo.On("GetByID", ctx, productID).Return(existing, nil)
		productRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.Status == model.StatusSoldOut
		}), "S1").Return(nil)

		draft := validDraft()
		draft.Status = model.StatusSoldOut

		_, err := writer.Update(ctx, productID, "S1", draft)

		require.NoError(t, err)
		productRepo.AssertExpectations(t)
	})

	t.Run("Unknown status rejected before any read", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		writer := newTestWriter(productRepo, categoryRepo, now)

		draft := validDraft()
		draft.Status = "archived"

		product, err := writer.Update(ctx, productID, "S1", draft)

		require.Error(t, err)
		assert.Nil(t, product)

		var de *model.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, model.ErrCodeValidationFailed, de.Code)
		assert.Equal(t, "status", de.Field)

		productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		writer := newTestWriter(productRepo, categoryRepo, now)

		categoryRepo.On("GetByID", ctx, "electronics").
			Return(&model.Category{ID: "electronics"}, nil)
		productRepo.On("GetByID", ctx, productID).Return(nil, nil)

		product, err := writer.Update(ctx, productID, "S1", validDraft())

		require.ErrorIs(t, err, model.ErrProductNotFound)
		assert.Nil(t, product)
		productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Non-owner update forbidden", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		writer := newTestWriter(productRepo, categoryRepo, now)

		categoryRepo.On("GetByID", ctx, "electronics").
			Return(&model.Category{ID: "electronics"}, nil)
		productRepo.On("GetByID", ctx, productID).Return(existing, nil)
		productRepo.On("Update", ctx, mock.AnythingOfType("*model.Product"), "S2").
			Return(model.ErrForbidden)

		product, err := writer.Update(ctx, productID, "S2", validDraft())

		require.ErrorIs(t, err, model.ErrForbidden)
		assert.Nil(t, product)
	})
}

func TestProductWriter_ValidatesBeforeStoreCalls(t *testing.T) {
	// A draft failing a local precondition must not even reach the
	// category lookup, let alone the product store.
	ctx := context.Background()
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	writer := newTestWriter(productRepo, categoryRepo, time.Now())

	draft := validDraft()
	draft.Title = strings.Repeat(" ", 4)

	_, err := writer.Create(ctx, "S1", draft)

	require.Error(t, err)
	categoryRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	productRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
