package catalog

import (
	"context"
	"strings"
	"sync"
)

// MemStore keeps products in insertion order. Ids come from a counter that
// only moves forward, so an id is never handed out twice even after deletes.
type MemStore struct {
	mu       sync.RWMutex
	products []Product
	nextID   int64
	images   ImageProvider
}

// NewMemStore returns a store holding seed. The id counter starts after the
// largest seeded id.
func NewMemStore(images ImageProvider, seed ...Product) *MemStore {
	s := &MemStore{
		products: make([]Product, 0, len(seed)),
		nextID:   1,
		images:   images,
	}
	for _, p := range seed {
		s.products = append(s.products, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// NewStore returns a MemStore with the sample catalog.
func NewStore(images ImageProvider) *MemStore {
	return NewMemStore(images, SampleProducts()...)
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// List returns copies. Products without an image get a fresh placeholder in
// the copy only.
func (s *MemStore) List(context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	for i, p := range s.products {
		out[i] = s.withImage(p)
	}
	return out, nil
}

func (s *MemStore) Get(_ context.Context, id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	return s.withImage(s.products[i]), nil
}

func (s *MemStore) Insert(_ context.Context, np NewProduct) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{
		ID:          s.nextID,
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		ImageURL:    np.ImageURL,
	}
	if isBlank(p.ImageURL) {
		p.ImageURL = s.images.PlaceholderURL()
	}

	s.nextID++
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) PatchByID(_ context.Context, id int64, patch Patch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}

	p := s.products[i]
	if patch.Name.Set && patch.Name.Value != "" {
		p.Name = patch.Name.Value
	}
	if patch.Description.Set && patch.Description.Value != "" {
		p.Description = patch.Description.Value
	}
	p.Price = patch.Price.OrElse(p.Price)
	if patch.ImageURL.Set && !isBlank(patch.ImageURL.Value) {
		p.ImageURL = patch.ImageURL.Value
	}
	if isBlank(p.ImageURL) {
		p.ImageURL = s.images.PlaceholderURL()
	}

	s.products[i] = p
	return p, nil
}

func (s *MemStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

// indexOf is a first-match linear scan. Callers hold s.mu.
func (s *MemStore) indexOf(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemStore) withImage(p Product) Product {
	if isBlank(p.ImageURL) {
		p.ImageURL = s.images.PlaceholderURL()
	}
	return p
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
