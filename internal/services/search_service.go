package services

import (
	"context"
	"sync"
	"time"

	"plantshop/internal/api"
	"plantshop/internal/models"
)

// DefaultSearchDebounce is how long the search box waits after the last
// keystroke before firing a catalog request.
const DefaultSearchDebounce = 300 * time.Millisecond

// SearchService debounces product search: each keystroke resets a timer,
// so at most one fetch fires per quiet period, always with the final
// query string. A response for a query that is no longer current is
// dropped instead of clobbering newer results.
type SearchService struct {
	api   api.ProductAPI
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	query   string
	results []models.Product
	loading bool
	err     string
}

// SearchOption configures a SearchService.
type SearchOption func(*SearchService)

// WithSearchDebounce overrides the debounce window (tests use a short one).
func WithSearchDebounce(d time.Duration) SearchOption {
	return func(s *SearchService) { s.delay = d }
}

// NewSearchService creates a debounced search store over the catalog API.
func NewSearchService(productAPI api.ProductAPI, opts ...SearchOption) *SearchService {
	s := &SearchService{api: productAPI, delay: DefaultSearchDebounce}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetQuery records a keystroke. The pending fetch, if any, is pushed
// back by the full debounce window.
func (s *SearchService) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.loading = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(query) })
}

// fire runs the actual catalog request for the query captured when the
// timer elapsed.
func (s *SearchService) fire(query string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := s.api.ListProducts(ctx, api.ProductQuery{Search: query})

	s.mu.Lock()
	defer s.mu.Unlock()
	if query != s.query {
		// A newer keystroke superseded this request.
		return
	}
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return
	}
	s.results = products
	s.err = ""
}

// Query returns the current search box contents.
func (s *SearchService) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the products matching the last completed search.
func (s *SearchService) Results() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]models.Product, len(s.results))
	copy(results, s.results)
	return results
}

// Loading reports whether a search is pending or in flight.
func (s *SearchService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the last search error, or "".
func (s *SearchService) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
