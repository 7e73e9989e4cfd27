package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/config"
	"github.com/SokolovEgor954/TheLastShelter/controllers"
	"github.com/SokolovEgor954/TheLastShelter/middlewares"
	"github.com/SokolovEgor954/TheLastShelter/services"
)

func SetupRouter(
	db *gorm.DB,
	cfg *config.Config,
	notifier services.Notifier,
	reservations *services.ReservationService,
	orders *services.OrderService,
	reviews *services.ReviewService,
	links *services.LinkService,
) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.JWTSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("shelter_session", store))

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.UploadsGuard())

	r.Static("/uploads", cfg.UploadDir)

	userCtrl := controllers.NewUserController(db, notifier, cfg.BaseURL)
	menuCtrl := controllers.NewMenuController(db, reviews, notifier, cfg.UploadDir)
	reviewCtrl := controllers.NewReviewController(db, reviews)
	basketCtrl := controllers.NewBasketController(db)
	orderCtrl := controllers.NewOrderController(db, orders)
	reservationCtrl := controllers.NewReservationController(db, reservations)
	linkCtrl := controllers.NewLinkController(db, links)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)
	r.POST("/forgot_password", userCtrl.ForgotPassword)
	r.POST("/reset_password/:token", userCtrl.ResetPassword)

	r.GET("/menu", menuCtrl.GetMenu)
	r.GET("/menu/:item_id", middlewares.OptionalAuth(), menuCtrl.GetItem)
	r.GET("/tables", reservationCtrl.FloorPlan)

	// Basket lives in the cookie session; no account needed until checkout.
	r.GET("/basket", basketCtrl.GetBasket)
	r.POST("/basket/items", basketCtrl.AddItem)
	r.PATCH("/basket/items/:item_name", basketCtrl.UpdateItem)
	r.DELETE("/basket", basketCtrl.ClearBasket)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.POST("/profile/change_password", userCtrl.ChangePassword)
		auth.POST("/profile/telegram_link", linkCtrl.IssueCode)
		auth.POST("/profile/telegram_unlink", linkCtrl.Unlink)

		auth.POST("/orders", orderCtrl.Checkout)
		auth.GET("/orders", orderCtrl.MyOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrder)
		auth.DELETE("/orders/:order_id", orderCtrl.CancelOrder)

		auth.POST("/reservations", reservationCtrl.CreateReservation)
		auth.GET("/reservations", reservationCtrl.MyReservations)
		auth.PATCH("/reservations/:reservation_id", reservationCtrl.EditReservation)
		auth.DELETE("/reservations/:reservation_id", reservationCtrl.CancelReservation)

		auth.POST("/menu/:item_id/reviews", reviewCtrl.AddReview)
		auth.DELETE("/reviews/:review_id", reviewCtrl.DeleteReview)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.DELETE("/users/:user_id", userCtrl.DeleteUser)

		admin.GET("/reservations", reservationCtrl.ListReservations)
		admin.DELETE("/reservations/:reservation_id", reservationCtrl.AdminCancelReservation)

		admin.GET("/orders", orderCtrl.ActiveOrders)
		admin.PATCH("/orders/:order_id", orderCtrl.AdvanceStatus)

		admin.GET("/menu", menuCtrl.ListAllItems)
		admin.POST("/menu", menuCtrl.CreateItem)
		admin.PATCH("/menu/:item_id", menuCtrl.ToggleItem)
		admin.DELETE("/menu/:item_id", menuCtrl.DeleteItem)
	}

	return r
}
