package routes

import (
	"github.com/tanvir-hs/CourseDeck/controllers"
	"github.com/tanvir-hs/CourseDeck/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	// Auth
	router.POST("/register", controllers.RegisterUser)
	router.POST("/verify-otp", controllers.VerifyRegistrationOTP)
	router.POST("/resend-otp", controllers.ResendRegistrationOTP)
	router.POST("/login", controllers.LoginUser)

	// Public catalog
	router.GET("/courses", controllers.GetCourses)
	router.GET("/courses/:slug", controllers.GetCourseDetails)

	// Public certificate verification
	router.GET("/certificates/:serial/verify", controllers.VerifyCertificate)

	// Gateway browser callbacks. SSLCommerz posts here without our auth
	// context, so these stay public and validate server-side.
	router.POST("/payment/success", controllers.PaymentSuccess)
	router.POST("/payment/fail", controllers.PaymentFail)
	router.POST("/payment/cancel", controllers.PaymentCancel)

	// Protected routes
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", controllers.GetProfile)

		// Coupon validation (read-only, no redemption)
		protected.POST("/coupons/validate", controllers.ValidateCoupon)
		protected.GET("/coupons", controllers.GetCoupons)

		// Checkout and payment
		protected.POST("/checkout", controllers.SubmitCheckout)
		protected.POST("/payment/validate", controllers.ValidatePayment)
		protected.POST("/payment/razorpay/initiate", controllers.InitiateRazorpayPayment)
		protected.POST("/payment/razorpay/verify", controllers.VerifyRazorpayPayment)
		protected.POST("/manual-payments", controllers.SubmitManualPayment)

		// Enrollments and invoices
		protected.GET("/enrollments", controllers.GetMyEnrollments)
		protected.GET("/invoices/:number", controllers.GetInvoice)
		protected.GET("/invoices/:number/download", controllers.DownloadInvoice)
	}
}
