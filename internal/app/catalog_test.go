package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranquidescanso/internal/app"
	"tranquidescanso/internal/domain"
)

// memCache round-trips through JSON like the Redis adapter does.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// fakeCatalog overrides what the tests touch; anything else panics on the
// nil embedded interface.
type fakeCatalog struct {
	domain.CatalogRepository

	hotels      map[int64]domain.Hotel
	listCalls   int
	getCalls    int
	updateCalls int
	createErr   error
	listErr     error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{hotels: map[int64]domain.Hotel{
		1: {ID: 1, Name: "Tranqui Centro", Address: "Calle 1", OpeningYear: 1998, CategoryID: 1, Phones: []string{"555-0101"}},
	}}
}

func (f *fakeCatalog) CreateHotel(_ context.Context, h domain.Hotel) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	h.ID = int64(len(f.hotels) + 1)
	f.hotels[h.ID] = h
	return h.ID, nil
}

func (f *fakeCatalog) ListHotels(context.Context) ([]domain.HotelSummary, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.HotelSummary{}
	for _, h := range f.hotels {
		out = append(out, domain.HotelSummary{ID: h.ID, Name: h.Name, Address: h.Address, OpeningYear: h.OpeningYear})
	}
	return out, nil
}

func (f *fakeCatalog) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	f.getCalls++
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.NotFoundID("hotel", id)
	}
	return h, nil
}

func (f *fakeCatalog) UpdateHotel(_ context.Context, id int64, p domain.HotelPatch) error {
	f.updateCalls++
	h, ok := f.hotels[id]
	if !ok {
		return domain.NotFoundID("hotel", id)
	}
	if p.Name != nil {
		h.Name = *p.Name
	}
	f.hotels[id] = h
	return nil
}

func (f *fakeCatalog) DeleteHotel(_ context.Context, id int64) error {
	if _, ok := f.hotels[id]; !ok {
		return domain.NotFoundID("hotel", id)
	}
	delete(f.hotels, id)
	return nil
}

func TestCatalogReadThroughCache(t *testing.T) {
	repo := newFakeCatalog()
	cache := newMemCache()
	svc := app.NewCatalogService(repo, cache, time.Minute)
	ctx := context.Background()

	h1, err := svc.GetHotel(ctx, 1)
	require.NoError(t, err)
	h2, err := svc.GetHotel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, repo.getCalls)
	assert.Equal(t, 1, cache.hits)

	_, err = svc.ListHotels(ctx)
	require.NoError(t, err)
	_, err = svc.ListHotels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestCatalogWritesInvalidate(t *testing.T) {
	repo := newFakeCatalog()
	svc := app.NewCatalogService(repo, newMemCache(), time.Minute)
	ctx := context.Background()

	_, err := svc.ListHotels(ctx)
	require.NoError(t, err)
	_, err = svc.GetHotel(ctx, 1)
	require.NoError(t, err)

	name := "Tranqui Playa"
	h, err := svc.UpdateHotel(ctx, 1, domain.HotelPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Tranqui Playa", h.Name)

	list, err := svc.ListHotels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, "Tranqui Playa", list[0].Name)

	created, err := svc.CreateHotel(ctx, domain.Hotel{Name: "Tranqui Norte", Address: "Av 9", OpeningYear: 2020})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.CategoryID, "category defaults to 1")
	list, err = svc.ListHotels(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.DeleteHotel(ctx, created.ID))
	_, err = svc.GetHotel(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogEmptyPatchSkipsStore(t *testing.T) {
	repo := newFakeCatalog()
	svc := app.NewCatalogService(repo, nil, 0)

	h, err := svc.UpdateHotel(context.Background(), 1, domain.HotelPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Tranqui Centro", h.Name)
	assert.Zero(t, repo.updateCalls)

	_, err = svc.UpdateHotel(context.Background(), 42, domain.HotelPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogErrorKinds(t *testing.T) {
	repo := newFakeCatalog()
	svc := app.NewCatalogService(repo, nil, 0)
	ctx := context.Background()

	repo.createErr = errors.New("connection reset")
	_, err := svc.CreateHotel(ctx, domain.Hotel{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrConflict, "write faults surface as client errors")

	repo.listErr = errors.New("connection reset")
	_, err = svc.ListHotels(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)

	assert.ErrorIs(t, svc.DeleteHotel(ctx, 99), domain.ErrNotFound)
}
