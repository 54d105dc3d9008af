package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"plantshop/internal/api"
	"plantshop/internal/models"
	"plantshop/internal/services"
	"plantshop/internal/stub"
	"plantshop/pkg/localstore"
)

// demoAddress is the shipping address used by the startup smoke flow.
func demoAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Street:  "12 Garden Row",
		City:    "Paba",
		State:   "Rajshahi",
		ZipCode: "6000",
		Country: "Bangladesh",
	}
}

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("SESSION_DB", "plantshop-session.db")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	baseURL := viper.GetString("API_BASE_URL")

	// --- Start the stub backend ---
	// Development runs against the in-process stub; pointing
	// API_BASE_URL at a deployed backend works the same way.
	server := stub.New(stub.Config{JWTSecret: viper.GetString("JWT_SECRET")})
	server.SeedCatalog()
	if _, err := server.SeedUser("admin", "admin@plantshop.test", "admin123", true); err != nil {
		log.Printf("Error seeding admin user: %v", err)
	}
	if _, err := server.SeedUser("demo", "demo@plantshop.test", "demo123", false); err != nil {
		log.Printf("Error seeding demo user: %v", err)
	}

	go func() {
		log.Printf("Starting stub backend on %s", appPort)
		if err := server.Listen(appPort); err != nil {
			log.Fatalf("Stub backend failed to start: %v", err)
		}
	}()

	// --- Wire the client SDK ---
	session, err := localstore.Open(viper.GetString("SESSION_DB"))
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}

	var auth *services.AuthService
	client := api.NewClient(baseURL,
		api.WithTokenSource(api.TokenSourceFunc(func() string {
			if auth == nil {
				return ""
			}
			return auth.Token()
		})),
		api.WithUnauthorizedHandler(func() {
			if auth != nil {
				auth.HandleUnauthorized()
			}
		}),
	)
	auth = services.NewAuthService(client, session)
	if err := auth.Restore(); err != nil {
		log.Printf("Warning: failed to restore session: %v", err)
	}

	cart := services.NewCartService(client)
	orders := services.NewOrderService(client)
	checkout := services.NewCheckoutService(cart, orders, client, client)
	products := services.NewProductService(client)
	wishlist := services.NewWishlistService(client)

	// --- Smoke the wiring against the stub ---
	// A quick pass through the main flows so a dev sees immediately
	// whether the client and backend agree.
	go func() {
		time.Sleep(200 * time.Millisecond) // let the listener come up
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if !auth.SignedIn() {
			if err := auth.Login(ctx, "demo", "demo123"); err != nil {
				log.Printf("Demo login failed: %v", err)
				return
			}
		}
		log.Printf("Signed in as %s", auth.User().Username)

		catalog, err := products.Browse(ctx, api.ProductQuery{})
		if err != nil || len(catalog) == 0 {
			log.Printf("Catalog browse failed: %v", err)
			return
		}
		log.Printf("Catalog has %d products", len(catalog))

		if err := cart.AddItem(ctx, catalog[0].ID, 2); err != nil {
			log.Printf("Add to cart failed: %v", err)
			return
		}
		if err := wishlist.Add(ctx, catalog[0].ID); err != nil {
			log.Printf("Wishlist add failed: %v", err)
		}
		log.Printf("Cart: %d item(s), total %.2f", cart.TotalItems(), cart.TotalPrice())

		checkout.SetAddress(demoAddress())
		if !checkout.ConfirmShipping() {
			log.Printf("Shipping form rejected: %v", checkout.FieldErrors())
			return
		}
		if err := checkout.SelectPayment(models.PaymentCash); err != nil {
			log.Printf("Payment selection failed: %v", err)
			return
		}
		order, err := checkout.Submit(ctx)
		if err != nil {
			log.Printf("Checkout failed: %v", err)
			return
		}
		log.Printf("Placed order %s: items %.2f + shipping %.2f = %.2f",
			order.ID, order.ItemsPrice, order.ShippingPrice, order.TotalPrice)

		history, err := orders.ListMine(ctx)
		if err != nil {
			log.Printf("Order history fetch failed: %v", err)
			return
		}
		log.Printf("Order history: %d order(s)", len(history))
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	if err := server.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Stopped")
}
