package api

import (
	"context"
	"io"

	"plantshop/internal/models"
)

// ProductQuery filters a catalog listing.
type ProductQuery struct {
	Search   string
	Category string
}

// ProductAPI is the catalog read surface.
type ProductAPI interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// CartAPI is the remote cart surface. Every mutation returns the
// authoritative cart snapshot the server holds after the change.
type CartAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error)
	ClearCart(ctx context.Context) error
}

// OrderAPI is the customer order surface.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListMyOrders(ctx context.Context) ([]models.Order, error)
	CancelOrder(ctx context.Context, id string) (*models.Order, error)
	PayOrder(ctx context.Context, id string) (*models.Order, error)
}

// LoginResult is the token-plus-profile pair a successful login yields.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UserAPI covers authentication and profile management.
type UserAPI interface {
	Register(ctx context.Context, user models.User) (*models.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, user models.User) (*models.User, error)
	SaveAddress(ctx context.Context, addr models.ShippingAddress) error
}

// WishlistAPI manages the user's saved products.
type WishlistAPI interface {
	GetWishlist(ctx context.Context) ([]models.Product, error)
	AddToWishlist(ctx context.Context, productID string) ([]models.Product, error)
	RemoveFromWishlist(ctx context.Context, productID string) ([]models.Product, error)
}

// UploadAPI pushes images to the hosting endpoint and returns their URL.
type UploadAPI interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// AdminAPI is the admin-console surface: catalog management plus
// store-wide orders and users.
type AdminAPI interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, cat models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Compile-time checks that Client covers every surface.
var (
	_ ProductAPI  = (*Client)(nil)
	_ CartAPI     = (*Client)(nil)
	_ OrderAPI    = (*Client)(nil)
	_ UserAPI     = (*Client)(nil)
	_ WishlistAPI = (*Client)(nil)
	_ UploadAPI   = (*Client)(nil)
	_ AdminAPI    = (*Client)(nil)
)
