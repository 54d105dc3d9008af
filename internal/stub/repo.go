package stub

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"plantshop/internal/models"
)

// The stub keeps everything in memory behind RWMutex maps. It stands in
// for the real backend during development and integration tests, so the
// semantics (authoritative cart snapshots, stock checks, status
// transitions) matter more than durability.

type productRepo struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

func newProductRepo() *productRepo {
	return &productRepo{products: make(map[string]models.Product)}
}

func (r *productRepo) List(search, categoryID string) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (r *productRepo) Get(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &p, nil
}

func (r *productRepo) Create(p *models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	r.products[p.ID] = *p
}

func (r *productRepo) Update(p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[p.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update", p.ID)
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	r.products[p.ID] = *p
	return nil
}

func (r *productRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}

// AdjustStock moves stock by delta (negative when ordering) and fails
// rather than letting stock go negative.
func (r *productRepo) AdjustStock(id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found", id)
	}
	if p.Stock+delta < 0 {
		return fmt.Errorf("insufficient stock for product %s (requested: %d, available: %d)", p.Name, -delta, p.Stock)
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	r.products[id] = p
	return nil
}

type categoryRepo struct {
	mu         sync.RWMutex
	categories map[string]models.Category
}

func newCategoryRepo() *categoryRepo {
	return &categoryRepo{categories: make(map[string]models.Category)}
}

func (r *categoryRepo) List() []models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (r *categoryRepo) Create(c *models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.categories[c.ID] = *c
}

func (r *categoryRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("category with ID %s not found for deletion", id)
	}
	delete(r.categories, id)
	return nil
}

type userRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func newUserRepo() *userRepo {
	return &userRepo{users: make(map[string]models.User)}
}

func (r *userRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return fmt.Errorf("username '%s' already taken", u.Username)
		}
		if existing.Email == u.Email {
			return fmt.Errorf("email '%s' already registered", u.Email)
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found", id)
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with username %s not found", username)
}

func (r *userRepo) Update(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok {
		return fmt.Errorf("user with ID %s not found for update", u.ID)
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *userRepo) List() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		u.Password = ""
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list
}

type cartRepo struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
}

func newCartRepo() *cartRepo {
	return &cartRepo{carts: make(map[string]*models.Cart)}
}

// Get returns a snapshot copy of the user's cart.
func (r *cartRepo) Get(userID string) models.Cart {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(userID)
}

// Mutate applies fn to the user's cart under the lock and returns the
// resulting snapshot.
func (r *cartRepo) Mutate(userID string, fn func(*models.Cart)) models.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		cart = &models.Cart{}
		r.carts[userID] = cart
	}
	fn(cart)
	return r.snapshotLocked(userID)
}

func (r *cartRepo) snapshotLocked(userID string) models.Cart {
	cart, ok := r.carts[userID]
	if !ok {
		return models.Cart{}
	}
	snapshot := models.Cart{UpdatedAt: cart.UpdatedAt}
	snapshot.Lines = make([]models.CartLine, len(cart.Lines))
	copy(snapshot.Lines, cart.Lines)
	return snapshot
}

type orderRepo struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func newOrderRepo() *orderRepo {
	return &orderRepo{orders: make(map[string]models.Order)}
}

func (r *orderRepo) Create(o *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	r.orders[o.ID] = *o
}

func (r *orderRepo) Get(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &o, nil
}

func (r *orderRepo) ListByUser(userID string) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]models.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (r *orderRepo) ListAll() []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

// Mutate applies fn to the order under the lock. fn may return an error
// to abort the update.
func (r *orderRepo) Mutate(id string, fn func(*models.Order) error) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	if err := fn(&o); err != nil {
		return nil, err
	}
	o.UpdatedAt = time.Now()
	r.orders[id] = o
	return &o, nil
}

type wishlistRepo struct {
	mu        sync.RWMutex
	wishlists map[string][]string
}

func newWishlistRepo() *wishlistRepo {
	return &wishlistRepo{wishlists: make(map[string][]string)}
}

func (r *wishlistRepo) Get(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.wishlists[userID]))
	copy(ids, r.wishlists[userID])
	return ids
}

func (r *wishlistRepo) Add(userID, productID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.wishlists[userID] {
		if id == productID {
			return r.wishlists[userID]
		}
	}
	r.wishlists[userID] = append(r.wishlists[userID], productID)
	return r.wishlists[userID]
}

func (r *wishlistRepo) Remove(userID, productID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.wishlists[userID]
	for i, id := range ids {
		if id == productID {
			r.wishlists[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return r.wishlists[userID]
}
