package stub_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"

	"plantshop/internal/api"
	"plantshop/internal/models"
	"plantshop/internal/services"
	"plantshop/internal/stub"
)

// testBackend wraps a seeded stub server behind a real HTTP listener so
// the client SDK is exercised over the wire, headers and all.
type testBackend struct {
	client *api.Client
	token  string
}

func (b *testBackend) Token() string { return b.token }

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	server := stub.New(stub.Config{JWTSecret: "test_jwt_secret"})
	server.SeedCatalog()
	_, err := server.SeedUser("demo", "demo@plantshop.test", "demo123", false)
	assert.NoError(t, err)
	_, err = server.SeedUser("admin", "admin@plantshop.test", "admin123", true)
	assert.NoError(t, err)

	ts := httptest.NewServer(adaptor.FiberApp(server.App()))
	t.Cleanup(ts.Close)

	backend := &testBackend{}
	backend.client = api.NewClient(ts.URL, api.WithTokenSource(backend))
	return backend
}

func (b *testBackend) login(t *testing.T, username, password string) *models.User {
	t.Helper()
	result, err := b.client.Login(context.Background(), username, password)
	assert.NoError(t, err)
	b.token = result.Token
	return &result.User
}

func (b *testBackend) productByName(t *testing.T, name string) *models.Product {
	t.Helper()
	products, err := b.client.ListProducts(context.Background(), api.ProductQuery{Search: name})
	assert.NoError(t, err)
	assert.NotEmpty(t, products, "seeded product %q should be listed", name)
	return &products[0]
}

func rajshahiDeliveryAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Street:  "12 Shaheb Bazar Road",
		City:    "Rajshahi",
		State:   "Rajshahi",
		ZipCode: "6100",
		Country: "Bangladesh",
	}
}

func dhakaDeliveryAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Street:  "45 Gulshan Avenue",
		City:    "Dhaka",
		State:   "Dhaka",
		ZipCode: "1212",
		Country: "Bangladesh",
	}
}

func TestIntegration_RegisterAndLogin(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	user, err := backend.client.Register(ctx, models.User{
		Username: "fernlover",
		Email:    "fern@plantshop.test",
		Password: "secret123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.Password, "the backend must never echo the password")

	// A taken username is a conflict, not a silent overwrite.
	_, err = backend.client.Register(ctx, models.User{
		Username: "fernlover",
		Email:    "other@plantshop.test",
		Password: "secret123",
	})
	assert.Error(t, err)
	apiErr, ok := err.(*api.Error)
	assert.True(t, ok)
	assert.Equal(t, 409, apiErr.Status)

	_, err = backend.client.Login(ctx, "fernlover", "wrong-password")
	assert.True(t, api.IsUnauthorized(err))

	result, err := backend.client.Login(ctx, "fernlover", "secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "fernlover", result.User.Username)
}

func TestIntegration_ProtectedRoutesNeedToken(t *testing.T) {
	backend := newTestBackend(t)
	_, err := backend.client.GetCart(context.Background())
	assert.True(t, api.IsUnauthorized(err))
}

func TestIntegration_CartFlowAndStockLimit(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	backend.login(t, "demo", "demo123")

	monstera := backend.productByName(t, "Monstera")
	snake := backend.productByName(t, "Snake Plant")

	cart, err := backend.client.AddCartItem(ctx, monstera.ID, 2)
	assert.NoError(t, err)
	cart, err = backend.client.AddCartItem(ctx, snake.ID, 1)
	assert.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
	assert.Equal(t, 3, cart.TotalItems())

	// Asking for more than the remaining stock is rejected and leaves
	// the cart untouched.
	_, err = backend.client.AddCartItem(ctx, monstera.ID, monstera.Stock)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
	cart, err = backend.client.GetCart(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, cart.TotalItems())

	cart, err = backend.client.UpdateCartItem(ctx, monstera.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, cart.Find(monstera.ID).Quantity)

	// Updating a line that is not in the cart is a 404.
	_, err = backend.client.UpdateCartItem(ctx, "no-such-product", 3)
	assert.True(t, api.IsNotFound(err))

	cart, err = backend.client.RemoveCartItem(ctx, snake.ID)
	assert.NoError(t, err)
	assert.Nil(t, cart.Find(snake.ID))

	assert.NoError(t, backend.client.ClearCart(ctx))
	cart, err = backend.client.GetCart(ctx)
	assert.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

// The full storefront path: state stores wired to the real client,
// driven through the checkout wizard.
func TestIntegration_CheckoutToRajshahi(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	backend.login(t, "demo", "demo123")

	monstera := backend.productByName(t, "Monstera")
	snake := backend.productByName(t, "Snake Plant")

	cartSvc := services.NewCartService(backend.client)
	orderSvc := services.NewOrderService(backend.client)
	checkout := services.NewCheckoutService(cartSvc, orderSvc, backend.client, backend.client)

	assert.NoError(t, cartSvc.AddItem(ctx, monstera.ID, 2))
	assert.NoError(t, cartSvc.AddItem(ctx, snake.ID, 1))
	assert.Equal(t, 250.0, cartSvc.TotalPrice())

	checkout.SetAddress(rajshahiDeliveryAddress())
	assert.Equal(t, 50.0, checkout.ShippingPrice())
	assert.True(t, checkout.ConfirmShipping())
	assert.NoError(t, checkout.SelectPayment(models.PaymentCash))

	order, err := checkout.Submit(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 250.0, order.ItemsPrice)
	assert.Equal(t, 50.0, order.ShippingPrice)
	assert.Equal(t, 300.0, order.TotalPrice)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)

	// The cart was cleared server-side after the order.
	assert.Empty(t, cartSvc.Lines())
	remote, err := backend.client.GetCart(ctx)
	assert.NoError(t, err)
	assert.Empty(t, remote.Lines)

	// The shipping address was saved to the profile on the way through.
	profile, err := backend.client.GetProfile(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, profile.Address)
	assert.Equal(t, "Rajshahi", profile.Address.State)

	// Stock was reserved for the order.
	after := backend.productByName(t, "Monstera")
	assert.Equal(t, monstera.Stock-2, after.Stock)
}

func TestIntegration_ShippingFeeOutsideRajshahi(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	backend.login(t, "demo", "demo123")

	monstera := backend.productByName(t, "Monstera")
	_, err := backend.client.AddCartItem(ctx, monstera.ID, 2)
	assert.NoError(t, err)
	snake := backend.productByName(t, "Snake Plant")
	_, err = backend.client.AddCartItem(ctx, snake.ID, 1)
	assert.NoError(t, err)

	// The backend recomputes prices from the items and district; the
	// client-supplied totals are display values only.
	order, err := backend.client.CreateOrder(ctx, models.OrderRequest{
		Items: []models.OrderItem{
			{ProductID: monstera.ID, Name: monstera.Name, Price: monstera.Price, Quantity: 2},
			{ProductID: snake.ID, Name: snake.Name, Price: snake.Price, Quantity: 1},
		},
		ShippingAddress: dhakaDeliveryAddress(),
		PaymentMethod:   models.PaymentCash,
		ItemsPrice:      1.0,
		ShippingPrice:   1.0,
		TotalPrice:      1.0,
	})
	assert.NoError(t, err)
	assert.Equal(t, 250.0, order.ItemsPrice)
	assert.Equal(t, 100.0, order.ShippingPrice)
	assert.Equal(t, 350.0, order.TotalPrice)
}

func TestIntegration_CardPaymentConfirmsAsynchronously(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	backend.login(t, "demo", "demo123")

	monstera := backend.productByName(t, "Monstera")
	cartSvc := services.NewCartService(backend.client)
	orderSvc := services.NewOrderService(backend.client)
	checkout := services.NewCheckoutService(cartSvc, orderSvc, backend.client, backend.client,
		services.WithCardConfirmDelay(10*time.Millisecond))

	assert.NoError(t, cartSvc.AddItem(ctx, monstera.ID, 1))
	checkout.SetAddress(rajshahiDeliveryAddress())
	assert.True(t, checkout.ConfirmShipping())
	assert.NoError(t, checkout.SelectPayment(models.PaymentCard))

	order, err := checkout.Submit(ctx)
	assert.NoError(t, err)
	assert.False(t, order.IsPaid, "card orders start unpaid until the gateway confirms")

	assert.Eventually(t, func() bool {
		fetched, err := backend.client.GetOrder(ctx, order.ID)
		return err == nil && fetched.IsPaid
	}, 2*time.Second, 20*time.Millisecond)
}

func TestIntegration_OrderCancelRules(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	backend.login(t, "demo", "demo123")

	monstera := backend.productByName(t, "Monstera")
	placeOrder := func() *models.Order {
		order, err := backend.client.CreateOrder(ctx, models.OrderRequest{
			Items: []models.OrderItem{
				{ProductID: monstera.ID, Name: monstera.Name, Price: monstera.Price, Quantity: 1},
			},
			ShippingAddress: rajshahiDeliveryAddress(),
			PaymentMethod:   models.PaymentCash,
		})
		assert.NoError(t, err)
		return order
	}

	// A pending unpaid order cancels, and its stock comes back.
	stockBefore := backend.productByName(t, "Monstera").Stock
	first := placeOrder()
	assert.Equal(t, stockBefore-1, backend.productByName(t, "Monstera").Stock)
	cancelled, err := backend.client.CancelOrder(ctx, first.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, stockBefore, backend.productByName(t, "Monstera").Stock)

	// A paid order no longer cancels.
	second := placeOrder()
	paid, err := backend.client.PayOrder(ctx, second.ID)
	assert.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.NotNil(t, paid.PaidAt)
	_, err = backend.client.CancelOrder(ctx, second.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "can no longer be cancelled")

	// Paying twice, or paying a cancelled order, is rejected.
	_, err = backend.client.PayOrder(ctx, second.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already paid")
	_, err = backend.client.PayOrder(ctx, first.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestIntegration_OrdersAreOwnerScoped(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	backend.login(t, "demo", "demo123")

	monstera := backend.productByName(t, "Monstera")
	order, err := backend.client.CreateOrder(ctx, models.OrderRequest{
		Items: []models.OrderItem{
			{ProductID: monstera.ID, Name: monstera.Name, Price: monstera.Price, Quantity: 1},
		},
		ShippingAddress: rajshahiDeliveryAddress(),
		PaymentMethod:   models.PaymentCash,
	})
	assert.NoError(t, err)

	mine, err := backend.client.ListMyOrders(ctx)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)

	// Another account sees neither the list entry nor the order itself.
	_, err = backend.client.Register(ctx, models.User{
		Username: "stranger", Email: "stranger@plantshop.test", Password: "secret123",
	})
	assert.NoError(t, err)
	backend.login(t, "stranger", "secret123")

	theirs, err := backend.client.ListMyOrders(ctx)
	assert.NoError(t, err)
	assert.Empty(t, theirs)
	_, err = backend.client.GetOrder(ctx, order.ID)
	assert.True(t, api.IsNotFound(err))
}

func TestIntegration_Wishlist(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	backend.login(t, "demo", "demo123")

	monstera := backend.productByName(t, "Monstera")
	jade := backend.productByName(t, "Jade Plant")

	wishlist := services.NewWishlistService(backend.client)
	assert.NoError(t, wishlist.Refresh(ctx))
	assert.Empty(t, wishlist.Products())

	assert.NoError(t, wishlist.Toggle(ctx, monstera.ID))
	assert.NoError(t, wishlist.Toggle(ctx, jade.ID))
	assert.True(t, wishlist.Contains(monstera.ID))
	assert.Len(t, wishlist.Products(), 2)

	// Toggling again removes.
	assert.NoError(t, wishlist.Toggle(ctx, monstera.ID))
	assert.False(t, wishlist.Contains(monstera.ID))
	assert.Len(t, wishlist.Products(), 1)
}

func TestIntegration_AdminConsole(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	// Non-admins are turned away from the console.
	backend.login(t, "demo", "demo123")
	_, err := backend.client.ListUsers(ctx)
	apiErr, ok := err.(*api.Error)
	assert.True(t, ok)
	assert.Equal(t, 403, apiErr.Status)

	backend.login(t, "admin", "admin123")

	category, err := backend.client.CreateCategory(ctx, models.Category{
		Name: "Ferns", Description: "Humidity-loving foliage",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, category.ID)

	product, err := backend.client.CreateProduct(ctx, models.Product{
		Name:       "Boston Fern",
		Price:      28.50,
		Stock:      15,
		CategoryID: category.ID,
	})
	assert.NoError(t, err)

	product.Price = 32.00
	updated, err := backend.client.UpdateProduct(ctx, *product)
	assert.NoError(t, err)
	assert.Equal(t, 32.00, updated.Price)

	users, err := backend.client.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}

	assert.NoError(t, backend.client.DeleteProduct(ctx, product.ID))
	_, err = backend.client.GetProduct(ctx, product.ID)
	assert.True(t, api.IsNotFound(err))
}

func TestIntegration_AdminOrderStatusFlow(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	backend.login(t, "demo", "demo123")
	monstera := backend.productByName(t, "Monstera")
	order, err := backend.client.CreateOrder(ctx, models.OrderRequest{
		Items: []models.OrderItem{
			{ProductID: monstera.ID, Name: monstera.Name, Price: monstera.Price, Quantity: 1},
		},
		ShippingAddress: rajshahiDeliveryAddress(),
		PaymentMethod:   models.PaymentCash,
	})
	assert.NoError(t, err)

	backend.login(t, "admin", "admin123")

	all, err := backend.client.ListAllOrders(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)

	// The fulfilment flow never skips a step.
	_, err = backend.client.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot move")

	_, err = backend.client.UpdateOrderStatus(ctx, order.ID, "misplaced")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid order status")

	processing, err := backend.client.UpdateOrderStatus(ctx, order.ID, models.OrderStatusProcessing)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, processing.Status)

	shipped, err := backend.client.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped)
	assert.NoError(t, err)
	assert.NotEmpty(t, shipped.TrackingNumber, "shipping assigns a tracking number")

	delivered, err := backend.client.UpdateOrderStatus(ctx, order.ID, models.OrderStatusDelivered)
	assert.NoError(t, err)
	assert.NotNil(t, delivered.DeliveredAt)

	// Delivered is terminal.
	_, err = backend.client.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled)
	assert.Error(t, err)
}

func TestIntegration_ImageUpload(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	backend.login(t, "admin", "admin123")

	url, err := backend.client.UploadImage(ctx, "boston-fern.jpg", strings.NewReader("fake image bytes"))
	assert.NoError(t, err)
	assert.Contains(t, url, "boston-fern.jpg")
	assert.True(t, strings.HasPrefix(url, "https://images.plantshop.test/"))
}

func TestIntegration_SearchAndCategoryFilter(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	matches, err := backend.client.ListProducts(ctx, api.ProductQuery{Search: "snake"})
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, "Snake Plant", matches[0].Name)

	categories, err := backend.client.ListCategories(ctx)
	assert.NoError(t, err)
	var succulents string
	for _, c := range categories {
		if c.Name == "Succulents" {
			succulents = c.ID
		}
	}
	assert.NotEmpty(t, succulents)

	filtered, err := backend.client.ListProducts(ctx, api.ProductQuery{Category: succulents})
	assert.NoError(t, err)
	assert.Len(t, filtered, 2)
	for _, p := range filtered {
		assert.Equal(t, succulents, p.CategoryID)
	}
}
