package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImage = "https://img.test/placeholder.png"

func fixedImages() ImageProvider {
	return ImageProviderFunc(func() string { return testImage })
}

func TestMemStore_ListSeed(t *testing.T) {
	s := NewStore(fixedImages())

	products, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 6)

	wantPrices := []float64{100, 200, 300, 150, 500, 50}
	for i, p := range products {
		assert.Equal(t, int64(i+1), p.ID)
		assert.Equal(t, wantPrices[i], p.Price)
		assert.Equal(t, testImage, p.ImageURL, "blank image is decorated on read")
	}
}

func TestMemStore_ListDoesNotPersistPlaceholder(t *testing.T) {
	calls := 0
	s := NewMemStore(ImageProviderFunc(func() string {
		calls++
		return testImage
	}), Product{ID: 1, Name: "a"})

	_, err := s.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "", s.products[0].ImageURL)
	assert.Equal(t, 1, calls)
}

func TestMemStore_Insert(t *testing.T) {
	tests := []struct {
		name      string
		in        NewProduct
		wantImage string
	}{
		{
			name:      "keeps supplied image",
			in:        NewProduct{Name: "Lamp", Description: "desk", Price: 25, ImageURL: "https://img.test/lamp.png"},
			wantImage: "https://img.test/lamp.png",
		},
		{
			name:      "blank image gets placeholder",
			in:        NewProduct{Name: "Chair", Price: 40, ImageURL: "   "},
			wantImage: testImage,
		},
		{
			name:      "zero price is kept",
			in:        NewProduct{Name: "Free"},
			wantImage: testImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(fixedImages())

			p, err := s.Insert(context.Background(), tt.in)
			require.NoError(t, err)

			assert.Equal(t, int64(7), p.ID)
			assert.Equal(t, tt.in.Name, p.Name)
			assert.Equal(t, tt.in.Description, p.Description)
			assert.Equal(t, tt.in.Price, p.Price)
			assert.Equal(t, tt.wantImage, p.ImageURL)

			products, err := s.List(context.Background())
			require.NoError(t, err)
			require.Len(t, products, 7)
			assert.Equal(t, p, products[6], "insert appends")
		})
	}
}

func TestMemStore_IDsAreNeverReused(t *testing.T) {
	s := NewStore(fixedImages())
	ctx := context.Background()

	a, err := s.Insert(ctx, NewProduct{Name: "a"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteByID(ctx, a.ID))

	b, err := s.Insert(ctx, NewProduct{Name: "b"})
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)

	require.NoError(t, s.DeleteByID(ctx, 6))
	c, err := s.Insert(ctx, NewProduct{Name: "c"})
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID)
}

func TestMemStore_NewMemStoreCounterStartsAfterLargestSeed(t *testing.T) {
	s := NewMemStore(fixedImages(), Product{ID: 40}, Product{ID: 3})

	p, err := s.Insert(context.Background(), NewProduct{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(41), p.ID)
}

func TestMemStore_Get(t *testing.T) {
	s := NewStore(fixedImages())

	p, err := s.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Product 3", p.Name)
	assert.Equal(t, testImage, p.ImageURL)

	_, err = s.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_PatchByID(t *testing.T) {
	seed := Product{ID: 1, Name: "Desk", Description: "oak", Price: 300, ImageURL: "https://img.test/desk.png"}

	tests := []struct {
		name  string
		patch Patch
		want  Product
	}{
		{
			name:  "empty patch keeps everything",
			patch: Patch{},
			want:  seed,
		},
		{
			name:  "name only",
			patch: Patch{Name: Some("Table")},
			want:  Product{ID: 1, Name: "Table", Description: "oak", Price: 300, ImageURL: seed.ImageURL},
		},
		{
			name:  "explicit zero price applies",
			patch: Patch{Price: Some(0.0)},
			want:  Product{ID: 1, Name: "Desk", Description: "oak", Price: 0, ImageURL: seed.ImageURL},
		},
		{
			name:  "empty name and description keep current",
			patch: Patch{Name: Some(""), Description: Some(""), Price: Some(300.0), ImageURL: Some("")},
			want:  seed,
		},
		{
			name:  "new image replaces",
			patch: Patch{ImageURL: Some("https://img.test/new.png")},
			want:  Product{ID: 1, Name: "Desk", Description: "oak", Price: 300, ImageURL: "https://img.test/new.png"},
		},
		{
			name:  "blank image keeps current",
			patch: Patch{ImageURL: Some("")},
			want:  seed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemStore(fixedImages(), seed)

			got, err := s.PatchByID(context.Background(), 1, tt.patch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			stored, err := s.Get(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored)
		})
	}
}

func TestMemStore_PatchByIDFillsMissingImage(t *testing.T) {
	s := NewStore(fixedImages())

	got, err := s.PatchByID(context.Background(), 2, Patch{Price: Some(250.0)})
	require.NoError(t, err)
	assert.Equal(t, testImage, got.ImageURL)
	assert.Equal(t, testImage, s.products[1].ImageURL, "placeholder is persisted on update")
}

func TestMemStore_PatchByIDNotFound(t *testing.T) {
	s := NewStore(fixedImages())

	_, err := s.PatchByID(context.Background(), 99, Patch{Name: Some("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 6, s.Len())
}

func TestMemStore_DeleteByID(t *testing.T) {
	s := NewStore(fixedImages())
	ctx := context.Background()

	require.NoError(t, s.DeleteByID(ctx, 3))

	products, err := s.List(ctx)
	require.NoError(t, err)

	var ids []int64
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 5, 6}, ids, "order of the rest is kept")

	assert.ErrorIs(t, s.DeleteByID(ctx, 3), ErrNotFound)
	assert.Equal(t, 5, s.Len())
}

func TestMemStore_DeleteThenInsert(t *testing.T) {
	tests := []struct {
		name      string
		deleteID  int64
		insert    NewProduct
		wantLen   int
		wantID    int64
		wantPrice float64
	}{
		{
			name:      "delete 3 then insert",
			deleteID:  3,
			insert:    NewProduct{Name: "X", Description: "Y", Price: 10},
			wantLen:   6,
			wantID:    7,
			wantPrice: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(fixedImages())
			ctx := context.Background()

			require.NoError(t, s.DeleteByID(ctx, tt.deleteID))
			assert.Equal(t, tt.wantLen-1, s.Len())

			p, err := s.Insert(ctx, tt.insert)
			require.NoError(t, err)

			products, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, products, tt.wantLen)

			for _, got := range products {
				assert.NotEqual(t, tt.deleteID, got.ID)
			}

			last := products[len(products)-1]
			assert.Equal(t, p, last, "insert appends")
			assert.Equal(t, tt.wantID, last.ID)
			assert.Equal(t, tt.insert.Name, last.Name)
			assert.Equal(t, tt.insert.Description, last.Description)
			assert.Equal(t, tt.wantPrice, last.Price)
			assert.NotEmpty(t, last.ImageURL)
		})
	}
}

func TestMemStore_ConcurrentInserts(t *testing.T) {
	s := NewStore(fixedImages())
	ctx := context.Background()

	const n = 50
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.Insert(ctx, NewProduct{Name: "p"})
			if err == nil {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, 6+n, s.Len())
}
