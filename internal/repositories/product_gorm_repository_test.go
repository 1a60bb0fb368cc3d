package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"productapi/internal/database"
	"productapi/internal/models"
	"productapi/internal/repositories"
)

// setupDB opens a private in-memory SQLite database for a single test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newProduct(name string) *models.Product {
	return &models.Product{Name: name, Description: "A widget", Price: models.MustParsePrice("19.99")}
}

// repositoryFactories runs the shared behaviour against every implementation.
func repositoryFactories() map[string]func(t *testing.T) repositories.ProductRepository {
	return map[string]func(t *testing.T) repositories.ProductRepository{
		"gorm": func(t *testing.T) repositories.ProductRepository {
			return repositories.NewGORMProductRepository(setupDB(t))
		},
		"memory": func(t *testing.T) repositories.ProductRepository {
			return repositories.NewMemoryProductRepository()
		},
	}
}

func TestProductRepository_CreateAssignsID(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			a := newProduct("Widget")
			a.ID = 42
			require.NoError(t, repo.Create(ctx, a))
			b := newProduct("Gadget")
			require.NoError(t, repo.Create(ctx, b))

			assert.NotZero(t, a.ID)
			assert.NotZero(t, b.ID)
			assert.NotEqual(t, a.ID, b.ID)

			found, ok, err := repo.Find(ctx, a.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Widget", found.Name)
			assert.Equal(t, "A widget", found.Description)
			assert.True(t, found.Price.Equal(models.MustParsePrice("19.99")))
		})
	}
}

func TestProductRepository_PriceIsExact(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			p := newProduct("Precise")
			p.Price = models.MustParsePrice("12345678.91")
			require.NoError(t, repo.Create(ctx, p))

			found, ok, err := repo.Find(ctx, p.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "12345678.91", found.Price.String())
		})
	}
}

func TestProductRepository_CreateRejectsLongName(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			p := newProduct(strings.Repeat("x", 100))
			err := repo.Create(ctx, p)

			require.Error(t, err)
			assert.True(t, models.IsDataValidationError(err))
			assert.Contains(t, err.Error(), "value too long")
			assert.Zero(t, p.ID)

			all, err := repo.All(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestProductRepository_Update(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			p := newProduct("Widget")
			require.NoError(t, repo.Create(ctx, p))
			id := p.ID

			p.Name = "Widget2"
			p.Price = models.MustParsePrice("250.00")
			require.NoError(t, repo.Update(ctx, p))
			assert.Equal(t, id, p.ID)

			found, ok, err := repo.Find(ctx, id)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Widget2", found.Name)
			assert.Equal(t, "250.00", found.Price.String())
		})
	}
}

func TestProductRepository_UpdateRejectsLongNameAndKeepsRow(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			p := newProduct("Widget")
			require.NoError(t, repo.Create(ctx, p))

			p.Name = strings.Repeat("x", 100)
			err := repo.Update(ctx, p)
			require.Error(t, err)
			assert.True(t, models.IsDataValidationError(err))
			assert.Contains(t, err.Error(), "value too long")

			found, ok, err := repo.Find(ctx, p.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Widget", found.Name)
		})
	}
}

func TestProductRepository_UpdateUnsavedOrMissing(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			err := repo.Update(ctx, newProduct("Unsaved"))
			require.Error(t, err)
			assert.True(t, models.IsDataValidationError(err))

			ghost := newProduct("Ghost")
			ghost.ID = 999
			err = repo.Update(ctx, ghost)
			require.Error(t, err)
			assert.True(t, models.IsDataValidationError(err))
			assert.Contains(t, err.Error(), "not found for update")

			all, err := repo.All(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestProductRepository_DeleteThenFind(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			p := newProduct("Widget")
			require.NoError(t, repo.Create(ctx, p))
			require.NoError(t, repo.Delete(ctx, p))

			found, ok, err := repo.Find(ctx, p.ID)
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, found)

			err = repo.Delete(ctx, p)
			require.Error(t, err)
			assert.True(t, models.IsDataValidationError(err))
			assert.Contains(t, err.Error(), "not found for deletion")
		})
	}
}

func TestProductRepository_FindMissing(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			found, ok, err := factory(t).Find(context.Background(), 0)
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, found)
		})
	}
}

func TestProductRepository_FindByNameIsExact(t *testing.T) {
	for name, factory := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			for _, n := range []string{"Widget", "Widget", "widget", "Widget Pro", "Gadget"} {
				require.NoError(t, repo.Create(ctx, newProduct(n)))
			}

			matches, err := repo.FindByName(ctx, "Widget")
			require.NoError(t, err)
			assert.Len(t, matches, 2)
			for _, m := range matches {
				assert.Equal(t, "Widget", m.Name)
			}

			none, err := repo.FindByName(ctx, "Gizmo")
			require.NoError(t, err)
			assert.Empty(t, none)

			all, err := repo.All(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 5)
		})
	}
}
