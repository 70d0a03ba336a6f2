package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aishwaryacollections/storefront/controllers"
	"github.com/aishwaryacollections/storefront/middleware"
	"github.com/aishwaryacollections/storefront/services"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Product    *controllers.ProductController
	Cart       *controllers.CartController
	Order      *controllers.OrderController
	Address    *controllers.AddressController
	Wishlist   *controllers.WishlistController
	Review     *controllers.ReviewController
	Newsletter *controllers.NewsletterController
	Customer   *controllers.CustomerController
	Payment    *controllers.PaymentController
	Dispatch   *controllers.DispatchController
}

// Register mounts the full route table. Public routes first, then the
// authenticated storefront group, then the admin back-office group.
func Register(r *gin.Engine, ctrl Controllers, jwtSecret []byte, authz *services.AuthzService) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/verify-email", ctrl.Auth.VerifyEmail)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/password-reset", ctrl.Auth.RequestPasswordReset)
		auth.POST("/password-reset/confirm", ctrl.Auth.ConfirmPasswordReset)
	}

	// Public catalog
	r.GET("/products", ctrl.Product.ListProducts)
	r.GET("/products/:id", ctrl.Product.GetProduct)
	r.GET("/products/:id/reviews", ctrl.Review.GetProductReviews)
	r.GET("/categories", ctrl.Product.ListCategories)
	r.POST("/newsletter/subscribe", ctrl.Newsletter.Subscribe)

	// Authenticated storefront
	store := r.Group("/")
	store.Use(middleware.Auth(jwtSecret))
	{
		store.GET("/cart", ctrl.Cart.GetCart)
		store.POST("/cart/items", ctrl.Cart.AddItem)
		store.DELETE("/cart/items/:index", ctrl.Cart.RemoveItem)
		store.DELETE("/cart", ctrl.Cart.ClearCart)

		store.POST("/orders", ctrl.Order.PlaceOrder)
		store.GET("/orders", ctrl.Order.GetOrders)
		store.GET("/orders/:id", ctrl.Order.GetOrderByID)

		store.GET("/addresses", ctrl.Address.ListAddresses)
		store.POST("/addresses", ctrl.Address.CreateAddress)
		store.DELETE("/addresses/:id", ctrl.Address.DeleteAddress)

		store.GET("/wishlist", ctrl.Wishlist.GetWishlist)
		store.POST("/wishlist", ctrl.Wishlist.AddToWishlist)
		store.DELETE("/wishlist/:productId", ctrl.Wishlist.RemoveFromWishlist)

		store.POST("/products/:id/reviews", ctrl.Review.CreateReview)

		store.POST("/payments", ctrl.Payment.HandleAction)
	}

	// Admin back-office
	admin := r.Group("/admin")
	admin.Use(middleware.Auth(jwtSecret), middleware.AdminOnly(authz))
	{
		admin.POST("/products", ctrl.Product.CreateProduct)
		admin.PUT("/products/:id", ctrl.Product.UpdateProduct)
		admin.DELETE("/products/:id", ctrl.Product.DeleteProduct)
		admin.POST("/categories", ctrl.Product.CreateCategory)

		admin.GET("/orders", ctrl.Order.GetAllOrders)
		admin.PATCH("/orders/:id/status", ctrl.Order.UpdateStatus)
		admin.GET("/orders/:id/slip", ctrl.Dispatch.GetSlip)
		admin.POST("/orders/slips", ctrl.Dispatch.BatchSlips)

		admin.GET("/customers", ctrl.Customer.ListCustomers)
		admin.POST("/customers", ctrl.Customer.CreateCustomer)
		admin.DELETE("/customers/:id", ctrl.Customer.DeleteCustomer)
	}
}
