package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
)

func testCategories() []category.Category {
	return []category.Category{
		{ID: 3, Name: "Dining"},
		{ID: 1, Name: "Uncategorized"},
		{ID: 2, Name: "Income"},
		{ID: 7, Name: "dining"},
	}
}

func TestNewSet_RequiresFallback(t *testing.T) {
	_, err := category.NewSet([]category.Category{{ID: 2, Name: "Income"}})
	assert.ErrorIs(t, err, category.ErrNoFallback)
}

func TestSet_Resolve(t *testing.T) {
	set, err := category.NewSet(testCategories())
	require.NoError(t, err)

	type testCase struct {
		name   string
		label  string
		wantID category.ID
		wantOK bool
	}

	tests := []testCase{
		{name: "NumericID", label: "2", wantID: 2, wantOK: true},
		{name: "NameCaseInsensitive", label: "  INCOME ", wantID: 2, wantOK: true},
		{name: "NameClashLowestIDWins", label: "Dining", wantID: 3, wantOK: true},
		{name: "UnknownNumericFallsToName", label: "99", wantOK: false},
		{name: "UnknownName", label: "Travel", wantOK: false},
		{name: "Empty", label: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := set.Resolve(tt.label)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestSet_NameAndFallback(t *testing.T) {
	set, err := category.NewSet(testCategories())
	require.NoError(t, err)

	assert.Equal(t, category.ID(1), set.Fallback())
	assert.Equal(t, "Dining", set.Name(3))
	assert.Equal(t, category.FallbackName, set.Name(42))
	assert.Len(t, set.All(), 4)
	assert.Equal(t, category.ID(1), set.All()[0].ID)
}

func TestService_Set(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name      string
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any(), userID).Return(testCategories(), nil)
			},
		},
		{
			name: "MissingFallback",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any(), userID).Return([]category.Category{{ID: 5, Name: "Rent"}}, nil)
			},
			wantErr: category.ErrNoFallback,
		},
		{
			name: "RepoError",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any(), userID).Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			tt.setupMock(repo)

			set, err := category.NewService(repo).Set(context.Background(), userID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, category.ID(1), set.Fallback())
		})
	}
}
