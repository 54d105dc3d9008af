// Package stub is an in-process stand-in for the store's REST backend.
// It implements the same surface the production API exposes — catalog,
// cart, orders, profile, wishlist, uploads, and the admin console — over
// in-memory state, so the client SDK can be developed and integration
// tested without network access to the real service.
package stub

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"golang.org/x/crypto/bcrypt"

	"plantshop/internal/models"
)

// Config holds the stub backend settings.
type Config struct {
	JWTSecret string
}

// Server is the assembled stub backend.
type Server struct {
	app       *fiber.App
	jwtSecret []byte
	validate  *validator.Validate

	products   *productRepo
	categories *categoryRepo
	users      *userRepo
	carts      *cartRepo
	orders     *orderRepo
	wishlists  *wishlistRepo
}

// New builds the stub backend and registers all routes.
func New(cfg Config) *Server {
	s := &Server{
		app:        fiber.New(),
		jwtSecret:  []byte(cfg.JWTSecret),
		validate:   validator.New(),
		products:   newProductRepo(),
		categories: newCategoryRepo(),
		users:      newUserRepo(),
		carts:      newCartRepo(),
		orders:     newOrderRepo(),
		wishlists:  newWishlistRepo(),
	}

	s.app.Use(logger.New())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	apiV1 := s.app.Group("/api/v1")

	// Public routes.
	auth := apiV1.Group("/auth")
	auth.Post("/register", s.handleRegister)
	auth.Post("/login", s.handleLogin)

	apiV1.Get("/products", s.handleListProducts)
	apiV1.Get("/products/:id", s.handleGetProduct)
	apiV1.Get("/categories", s.handleListCategories)

	// Authenticated routes.
	protected := apiV1.Group("", authRequired(s.jwtSecret))

	cart := protected.Group("/users/cart")
	cart.Get("/", s.handleGetCart)
	cart.Post("/", s.handleAddCartItem)
	cart.Put("/:productID", s.handleUpdateCartItem)
	cart.Delete("/:productID", s.handleRemoveCartItem)
	cart.Delete("/", s.handleClearCart)

	protected.Get("/users/profile", s.handleGetProfile)
	protected.Put("/users/profile", s.handleUpdateProfile)
	protected.Put("/users/profile/address", s.handleSaveAddress)

	orders := protected.Group("/orders")
	orders.Post("/", s.handleCreateOrder)
	orders.Get("/", s.handleListMyOrders)
	orders.Get("/:id", s.handleGetOrder)
	orders.Post("/:id/cancel", s.handleCancelOrder)
	orders.Post("/:id/pay", s.handlePayOrder)

	wishlist := protected.Group("/wishlist")
	wishlist.Get("/", s.handleGetWishlist)
	wishlist.Post("/", s.handleAddToWishlist)
	wishlist.Delete("/:productID", s.handleRemoveFromWishlist)

	protected.Post("/upload/image", s.handleUploadImage)

	// Admin console routes.
	admin := protected.Group("/admin", adminRequired())
	admin.Post("/products", s.handleAdminCreateProduct)
	admin.Put("/products/:id", s.handleAdminUpdateProduct)
	admin.Delete("/products/:id", s.handleAdminDeleteProduct)
	admin.Post("/categories", s.handleAdminCreateCategory)
	admin.Delete("/categories/:id", s.handleAdminDeleteCategory)
	admin.Get("/orders", s.handleAdminListOrders)
	admin.Patch("/orders/:id/status", s.handleAdminUpdateOrderStatus)
	admin.Get("/users", s.handleAdminListUsers)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
		})
	})
}

// App exposes the underlying Fiber app for adaptor-based test servers.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on addr, blocking until shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SeedUser registers an account directly, bypassing the HTTP surface.
func (s *Server) SeedUser(username, email, password string, isAdmin bool) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		IsAdmin:  isAdmin,
	}
	if err := s.users.Create(&user); err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

// SeedCatalog loads a starter nursery catalog for development.
func (s *Server) SeedCatalog() {
	indoor := models.Category{Name: "Indoor", Description: "Houseplants for shade and filtered light"}
	succulents := models.Category{Name: "Succulents", Description: "Low-water desert plants"}
	supplies := models.Category{Name: "Supplies", Description: "Pots, soil and fertilizer"}
	for _, c := range []*models.Category{&indoor, &succulents, &supplies} {
		s.categories.Create(c)
	}

	products := []models.Product{
		{Name: "Monstera Deliciosa", Description: "Split-leaf philodendron, 6 inch pot", Price: 100.00, Stock: 12, CategoryID: indoor.ID,
			Images: models.ImageList{{URL: "https://images.plantshop.test/seed/monstera.jpg"}}},
		{Name: "Snake Plant", Description: "Sansevieria trifasciata, tolerates neglect", Price: 50.00, Stock: 30, CategoryID: indoor.ID,
			Images: models.ImageList{{URL: "https://images.plantshop.test/seed/snake-plant.jpg"}}},
		{Name: "Peace Lily", Description: "Spathiphyllum, blooms in low light", Price: 65.00, Stock: 18, CategoryID: indoor.ID},
		{Name: "Jade Plant", Description: "Crassula ovata in a ceramic pot", Price: 40.00, Stock: 25, CategoryID: succulents.ID},
		{Name: "Echeveria Mix", Description: "Tray of six assorted rosettes", Price: 35.00, Stock: 40, CategoryID: succulents.ID},
		{Name: "Potting Soil 5L", Description: "All-purpose indoor potting mix", Price: 12.50, Stock: 100, CategoryID: supplies.ID},
	}
	for i := range products {
		s.products.Create(&products[i])
		log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
	}
}
