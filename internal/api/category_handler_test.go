package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/service"
	"tarefas-api/internal/store"
)

// mockCategoryStore implements store.CategoryStore in memory.
type mockCategoryStore struct {
	categories []*domain.Category
}

func (m *mockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	m.categories = append(m.categories, category)
	return nil
}

func (m *mockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, store.ErrCategoryNotFound
}

func (m *mockCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}

func newCategoryHandlerForTest(t *testing.T) (*CategoryHandler, *mockCategoryStore) {
	t.Helper()
	categoryStore := &mockCategoryStore{}
	return NewCategoryHandler(service.NewCategoryService(categoryStore, testLogger())), categoryStore
}

func TestListCategoriesEndpoint(t *testing.T) {
	t.Parallel()

	handler, categoryStore := newCategoryHandlerForTest(t)
	work, err := domain.NewCategory("work", "briefcase")
	require.NoError(t, err)
	require.NoError(t, categoryStore.Create(context.Background(), work))

	w := httptest.NewRecorder()
	handler.ListCategories(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp []CategoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "work", resp[0].Name)
	assert.Equal(t, "briefcase", resp[0].Icon)
}

func TestListCategoriesEndpointEmpty(t *testing.T) {
	t.Parallel()

	handler, _ := newCategoryHandlerForTest(t)

	w := httptest.NewRecorder()
	handler.ListCategories(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetCategoryEndpoint(t *testing.T) {
	t.Parallel()

	handler, categoryStore := newCategoryHandlerForTest(t)
	home, err := domain.NewCategory("home", "")
	require.NoError(t, err)
	require.NoError(t, categoryStore.Create(context.Background(), home))

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetCategory(w, authedRequest(http.MethodGet, "/api/categories/"+home.ID.String(), nil, uuid.New(),
			map[string]string{"id": home.ID.String()}))
		require.Equal(t, http.StatusOK, w.Code)

		var resp CategoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, home.ID, resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		missing := uuid.New()
		w := httptest.NewRecorder()
		handler.GetCategory(w, authedRequest(http.MethodGet, "/api/categories/"+missing.String(), nil, uuid.New(),
			map[string]string{"id": missing.String()}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetCategory(w, authedRequest(http.MethodGet, "/api/categories/7", nil, uuid.New(),
			map[string]string{"id": "7"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
