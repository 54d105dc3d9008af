package stub

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"plantshop/internal/models"
	"plantshop/internal/pricing"
)

// --- Auth ---

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if user.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Password is required",
		})
	}
	if err := s.validate.Struct(user); err != nil {
		return validationFailed(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, "Could not register user", err)
	}
	user.Password = string(hashed)

	if err := s.users.Create(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		if strings.Contains(err.Error(), "already taken") || strings.Contains(err.Error(), "already registered") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		return internalError(c, "Could not register user", err)
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		return unauthorized(c, "Authentication failed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return unauthorized(c, "Authentication failed")
	}

	token, err := issueToken(user, s.jwtSecret)
	if err != nil {
		return internalError(c, "Could not issue token", err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// --- Catalog ---

func (s *Server) handleListProducts(c *fiber.Ctx) error {
	return c.JSON(s.products.List(c.Query("search"), c.Query("category")))
}

func (s *Server) handleGetProduct(c *fiber.Ctx) error {
	product, err := s.products.Get(c.Params("id"))
	if err != nil {
		return notFound(c, err)
	}
	return c.JSON(product)
}

func (s *Server) handleListCategories(c *fiber.Ctx) error {
	return c.JSON(s.categories.List())
}

// --- Cart ---

func (s *Server) handleGetCart(c *fiber.Ctx) error {
	return c.JSON(s.carts.Get(callerID(c)))
}

func (s *Server) handleAddCartItem(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,min=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := s.products.Get(req.ProductID)
	if err != nil {
		return notFound(c, err)
	}

	userID := callerID(c)
	inCart := 0
	existingCart := s.carts.Get(userID)
	if line := existingCart.Find(req.ProductID); line != nil {
		inCart = line.Quantity
	}
	if inCart+req.Quantity > product.Stock {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Not enough stock",
			"error":   fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)", product.Name, inCart+req.Quantity, product.Stock),
		})
	}

	cart := s.carts.Mutate(userID, func(cart *models.Cart) {
		cart.AddLine(*product, req.Quantity)
	})
	return c.JSON(cart)
}

func (s *Server) handleUpdateCartItem(c *fiber.Ctx) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	userID := callerID(c)
	productID := c.Params("productID")
	existingCart := s.carts.Get(userID)
	if existingCart.Find(productID) == nil {
		return notFound(c, fmt.Errorf("cart line for product %s not found", productID))
	}

	cart := s.carts.Mutate(userID, func(cart *models.Cart) {
		cart.SetQuantity(productID, req.Quantity)
	})
	return c.JSON(cart)
}

func (s *Server) handleRemoveCartItem(c *fiber.Ctx) error {
	cart := s.carts.Mutate(callerID(c), func(cart *models.Cart) {
		cart.RemoveLine(c.Params("productID"))
	})
	return c.JSON(cart)
}

func (s *Server) handleClearCart(c *fiber.Ctx) error {
	s.carts.Mutate(callerID(c), func(cart *models.Cart) {
		cart.Clear()
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Orders ---

func (s *Server) handleCreateOrder(c *fiber.Ctx) error {
	var req models.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	// Reserve stock item by item, rolling back on failure so a rejected
	// order leaves stock untouched.
	reserved := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if err := s.products.AdjustStock(item.ProductID, -item.Quantity); err != nil {
			for _, done := range reserved {
				if restoreErr := s.products.AdjustStock(done.ProductID, done.Quantity); restoreErr != nil {
					log.Printf("Error restoring stock for product %s: %v", done.ProductID, restoreErr)
				}
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Order creation failed due to insufficient stock",
				"error":   err.Error(),
			})
		}
		reserved = append(reserved, item)
	}

	// Client-supplied prices are display values only; the backend
	// recomputes them from the submitted items and address.
	itemsPrice := pricing.ItemsPrice(req.Items)
	shippingPrice := float64(pricing.ShippingCost(req.ShippingAddress.State))
	order := models.Order{
		UserID:          callerID(c),
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TaxPrice:        req.TaxPrice,
		TotalPrice:      pricing.TotalPrice(itemsPrice, shippingPrice, req.TaxPrice),
		Status:          models.OrderStatusPending,
	}
	s.orders.Create(&order)
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (s *Server) handleListMyOrders(c *fiber.Ctx) error {
	return c.JSON(s.orders.ListByUser(callerID(c)))
}

func (s *Server) handleGetOrder(c *fiber.Ctx) error {
	order, err := s.orders.Get(c.Params("id"))
	if err != nil {
		return notFound(c, err)
	}
	if order.UserID != callerID(c) {
		return notFound(c, fmt.Errorf("order with ID %s not found", order.ID))
	}
	return c.JSON(order)
}

func (s *Server) handleCancelOrder(c *fiber.Ctx) error {
	userID := callerID(c)
	order, err := s.orders.Mutate(c.Params("id"), func(o *models.Order) error {
		if o.UserID != userID {
			return fmt.Errorf("order with ID %s not found", o.ID)
		}
		if !o.Cancellable() {
			return fmt.Errorf("order %s can no longer be cancelled (status: %s, paid: %t)", o.ID, o.Status, o.IsPaid)
		}
		o.Status = models.OrderStatusCancelled
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return notFound(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not cancel order",
			"error":   err.Error(),
		})
	}

	// Cancelled orders release their stock.
	for _, item := range order.Items {
		if err := s.products.AdjustStock(item.ProductID, item.Quantity); err != nil {
			log.Printf("Error restoring stock for product %s: %v", item.ProductID, err)
		}
	}
	return c.JSON(order)
}

func (s *Server) handlePayOrder(c *fiber.Ctx) error {
	userID := callerID(c)
	order, err := s.orders.Mutate(c.Params("id"), func(o *models.Order) error {
		if o.UserID != userID {
			return fmt.Errorf("order with ID %s not found", o.ID)
		}
		if o.Status == models.OrderStatusCancelled {
			return fmt.Errorf("order %s is cancelled and cannot be paid", o.ID)
		}
		if o.IsPaid {
			return fmt.Errorf("order %s is already paid", o.ID)
		}
		now := time.Now()
		o.IsPaid = true
		o.PaidAt = &now
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return notFound(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not record payment",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// --- Profile ---

func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	user, err := s.users.GetByID(callerID(c))
	if err != nil {
		return notFound(c, err)
	}
	user.Password = ""
	return c.JSON(user)
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	var req models.User
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	user, err := s.users.GetByID(callerID(c))
	if err != nil {
		return notFound(c, err)
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return internalError(c, "Could not update profile", err)
		}
		user.Password = string(hashed)
	}
	if err := s.users.Update(user); err != nil {
		return internalError(c, "Could not update profile", err)
	}

	user.Password = ""
	return c.JSON(user)
}

func (s *Server) handleSaveAddress(c *fiber.Ctx) error {
	var addr models.ShippingAddress
	if err := c.BodyParser(&addr); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := s.validate.Struct(addr); err != nil {
		return validationFailed(c, err)
	}

	user, err := s.users.GetByID(callerID(c))
	if err != nil {
		return notFound(c, err)
	}
	user.Address = &addr
	if err := s.users.Update(user); err != nil {
		return internalError(c, "Could not save address", err)
	}
	return c.JSON(fiber.Map{"message": "Address saved"})
}

// --- Wishlist ---

func (s *Server) wishlistProducts(userID string) []models.Product {
	ids := s.wishlists.Get(userID)
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, err := s.products.Get(id); err == nil {
			products = append(products, *p)
		}
	}
	return products
}

func (s *Server) handleGetWishlist(c *fiber.Ctx) error {
	return c.JSON(s.wishlistProducts(callerID(c)))
}

func (s *Server) handleAddToWishlist(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	if _, err := s.products.Get(req.ProductID); err != nil {
		return notFound(c, err)
	}

	s.wishlists.Add(callerID(c), req.ProductID)
	return c.JSON(s.wishlistProducts(callerID(c)))
}

func (s *Server) handleRemoveFromWishlist(c *fiber.Ctx) error {
	s.wishlists.Remove(callerID(c), c.Params("productID"))
	return c.JSON(s.wishlistProducts(callerID(c)))
}

// --- Upload ---

func (s *Server) handleUploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "An image file is required", err)
	}
	// The real backend forwards to the image host; the stub just mints
	// a plausible hosted URL.
	url := fmt.Sprintf("https://images.plantshop.test/%s/%s", uuid.New().String(), file.Filename)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

// --- Admin ---

func (s *Server) handleAdminCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := s.validate.Struct(product); err != nil {
		return validationFailed(c, err)
	}
	s.products.Create(&product)
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (s *Server) handleAdminUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	product.ID = c.Params("id")
	if err := s.validate.Struct(product); err != nil {
		return validationFailed(c, err)
	}
	if err := s.products.Update(&product); err != nil {
		return notFound(c, err)
	}
	return c.JSON(product)
}

func (s *Server) handleAdminDeleteProduct(c *fiber.Ctx) error {
	if err := s.products.Delete(c.Params("id")); err != nil {
		return notFound(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAdminCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := s.validate.Struct(category); err != nil {
		return validationFailed(c, err)
	}
	s.categories.Create(&category)
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (s *Server) handleAdminDeleteCategory(c *fiber.Ctx) error {
	if err := s.categories.Delete(c.Params("id")); err != nil {
		return notFound(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAdminListOrders(c *fiber.Ctx) error {
	return c.JSON(s.orders.ListAll())
}

func (s *Server) handleAdminUpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if !models.ValidOrderStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Invalid order status: %s", req.Status),
		})
	}

	order, err := s.orders.Mutate(c.Params("id"), func(o *models.Order) error {
		if !o.Status.CanTransitionTo(req.Status) {
			return fmt.Errorf("order %s cannot move from %s to %s", o.ID, o.Status, req.Status)
		}
		o.Status = req.Status
		switch req.Status {
		case models.OrderStatusShipped:
			o.TrackingNumber = uuid.New().String()
		case models.OrderStatusDelivered:
			now := time.Now()
			o.DeliveredAt = &now
		}
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return notFound(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

func (s *Server) handleAdminListUsers(c *fiber.Ctx) error {
	return c.JSON(s.users.List())
}

// --- Shared responses ---

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return badRequest(c, "Validation failed", err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func notFound(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": err.Error(),
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
	})
}

func internalError(c *fiber.Ctx, message string, err error) error {
	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
