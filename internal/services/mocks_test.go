package services_test

import (
	"context"
	"fmt"

	"plantshop/internal/api"
	"plantshop/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCartAPI is a mock implementation of api.CartAPI.
type MockCartAPI struct {
	mock.Mock
}

func (m *MockCartAPI) GetCart(ctx context.Context) (*models.Cart, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) AddCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) ClearCart(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockOrderAPI is a mock implementation of api.OrderAPI.
type MockOrderAPI struct {
	mock.Mock
}

func (m *MockOrderAPI) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderAPI) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderAPI) ListMyOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderAPI) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderAPI) PayOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// MockUserAPI is a mock implementation of api.UserAPI.
type MockUserAPI struct {
	mock.Mock
}

func (m *MockUserAPI) Register(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserAPI) Login(ctx context.Context, username, password string) (*api.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LoginResult), args.Error(1)
}

func (m *MockUserAPI) GetProfile(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserAPI) UpdateProfile(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserAPI) SaveAddress(ctx context.Context, addr models.ShippingAddress) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

// MockProductAPI is a mock implementation of api.ProductAPI.
type MockProductAPI struct {
	mock.Mock
}

func (m *MockProductAPI) ListProducts(ctx context.Context, q api.ProductQuery) ([]models.Product, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductAPI) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductAPI) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

// fakeCartAPI is a stateful in-memory api.CartAPI. It mirrors the real
// backend's behavior for sequence tests: every mutation returns the
// authoritative snapshot after the change.
type fakeCartAPI struct {
	cart     models.Cart
	products map[string]models.Product
	failNext bool
}

func newFakeCartAPI(products ...models.Product) *fakeCartAPI {
	f := &fakeCartAPI{products: make(map[string]models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCartAPI) snapshot() *models.Cart {
	cart := models.Cart{UpdatedAt: f.cart.UpdatedAt}
	cart.Lines = make([]models.CartLine, len(f.cart.Lines))
	copy(cart.Lines, f.cart.Lines)
	return &cart
}

func (f *fakeCartAPI) fail() error {
	if f.failNext {
		f.failNext = false
		return fmt.Errorf("backend unavailable")
	}
	return nil
}

func (f *fakeCartAPI) GetCart(ctx context.Context) (*models.Cart, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.snapshot(), nil
}

func (f *fakeCartAPI) AddCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	product, ok := f.products[productID]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", productID)
	}
	f.cart.AddLine(product, quantity)
	return f.snapshot(), nil
}

func (f *fakeCartAPI) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	f.cart.SetQuantity(productID, quantity)
	return f.snapshot(), nil
}

func (f *fakeCartAPI) RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	f.cart.RemoveLine(productID)
	return f.snapshot(), nil
}

func (f *fakeCartAPI) ClearCart(ctx context.Context) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.cart.Clear()
	return nil
}
