package browse

import (
	"context"
	"testing"
	"time"

	"market-stall/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog implements service.CatalogService with a pluggable list hook.
type stubCatalog struct {
	listFn func(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error)
}

func (s *stubCatalog) ListTopLevelCategories(ctx context.Context) ([]model.Category, error) {
	return []model.Category{}, nil
}

func (s *stubCatalog) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error) {
	return s.listFn(ctx, filter)
}

func (s *stubCatalog) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithSeller, error) {
	return nil, model.ErrProductNotFound
}

func namedProduct(title string) model.ProductWithSeller {
	return model.ProductWithSeller{
		Product: model.Product{ID: uuid.New(), Title: title, Status: model.StatusActive},
	}
}

func receiveUpdate(t *testing.T, updates <-chan Update) Update {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func assertNoUpdate(t *testing.T, updates <-chan Update) {
	t.Helper()
	select {
	case u := <-updates:
		t.Fatalf("unexpected update delivered: %+v", u)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBrowser_DeliversResult(t *testing.T) {
	products := []model.ProductWithSeller{namedProduct("Phone")}
	catalog := &stubCatalog{
		listFn: func(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error) {
			return products, nil
		},
	}

	browser := NewBrowser(catalog, 1, zerolog.Nop())
	defer browser.Close()

	filter := model.ProductFilter{CategoryID: "electronics"}
	browser.Browse(context.Background(), filter)

	update := receiveUpdate(t, browser.Updates())
	require.NoError(t, update.Err)
	assert.Equal(t, products, update.Products)
	assert.Equal(t, filter.Normalize(), update.Filter)
}

func TestBrowser_LatestRequestWins(t *testing.T) {
	// The first request blocks until it is superseded; the second returns
	// immediately. Only the second request's result may be delivered, even
	// though the first one completes afterwards.
	firstIssued := make(chan struct{})
	first := []model.ProductWithSeller{namedProduct("stale")}
	second := []model.ProductWithSeller{namedProduct("fresh")}

	calls := 0
	catalog := &stubCatalog{}
	catalog.listFn = func(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error) {
		calls++
		if calls == 1 {
			close(firstIssued)
			<-ctx.Done() // superseded by the second request
			return first, nil
		}
		return second, nil
	}

	browser := NewBrowser(catalog, 2, zerolog.Nop())
	defer browser.Close()

	filter := model.ProductFilter{SearchText: "phone"}
	browser.Browse(context.Background(), filter)
	<-firstIssued
	browser.Browse(context.Background(), filter)

	update := receiveUpdate(t, browser.Updates())
	require.NoError(t, update.Err)
	assert.Equal(t, second, update.Products)

	assertNoUpdate(t, browser.Updates())
}

func TestBrowser_DistinctFilterKeysDoNotSupersede(t *testing.T) {
	catalog := &stubCatalog{
		listFn: func(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error) {
			return []model.ProductWithSeller{namedProduct(filter.CategoryID)}, nil
		},
	}

	browser := NewBrowser(catalog, 2, zerolog.Nop())
	defer browser.Close()

	browser.Browse(context.Background(), model.ProductFilter{CategoryID: "electronics"})
	browser.Browse(context.Background(), model.ProductFilter{CategoryID: "fashion"})

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		update := receiveUpdate(t, browser.Updates())
		require.NoError(t, update.Err)
		require.Len(t, update.Products, 1)
		got[update.Products[0].Title] = true
	}

	assert.True(t, got["electronics"])
	assert.True(t, got["fashion"])
}

func TestBrowser_UnavailableRendersEmpty(t *testing.T) {
	catalog := &stubCatalog{
		listFn: func(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error) {
			return nil, model.ErrRepositoryUnavailable
		},
	}

	browser := NewBrowser(catalog, 1, zerolog.Nop())
	defer browser.Close()

	browser.Browse(context.Background(), model.ProductFilter{})

	update := receiveUpdate(t, browser.Updates())
	require.ErrorIs(t, update.Err, model.ErrRepositoryUnavailable)
	assert.Empty(t, update.Products)
	assert.NotNil(t, update.Products)
}

func TestBrowser_Close(t *testing.T) {
	release := make(chan struct{})
	catalog := &stubCatalog{
		listFn: func(ctx context.Context, filter model.ProductFilter) ([]model.ProductWithSeller, error) {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return []model.ProductWithSeller{}, nil
		},
	}

	browser := NewBrowser(catalog, 1, zerolog.Nop())
	browser.Browse(context.Background(), model.ProductFilter{})

	done := make(chan struct{})
	go func() {
		browser.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not finish")
	}

	// The updates channel is closed and drained after Close.
	for range browser.Updates() {
	}

	// Browse after Close is a no-op.
	browser.Browse(context.Background(), model.ProductFilter{})
}
