package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"market-stall/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_List(t *testing.T) {
	logger := zerolog.Nop()

	testCategories := []model.Category{
		{ID: "electronics", Name: "Electronics", DisplayRank: 1},
		{ID: "fashion", Name: "Fashion", DisplayRank: 2},
	}

	tests := []struct {
		name           string
		mockReturn     []model.Category
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Success",
			mockReturn:     testCategories,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Empty catalog",
			mockReturn:     []model.Category{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Repository unavailable",
			mockReturn:     []model.Category{},
			mockError:      model.ErrRepositoryUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(MockCatalogService)
			h := NewCategoryHandler(catalog, logger)

			catalog.On("ListTopLevelCategories", mock.Anything).
				Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
			w := httptest.NewRecorder()

			h.List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var got []model.Category
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, tt.mockReturn, got)
			}

			catalog.AssertExpectations(t)
		})
	}
}
