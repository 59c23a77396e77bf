package routes

import (
	"github.com/tanvir-hs/CourseDeck/controllers"
	"github.com/tanvir-hs/CourseDeck/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-facing routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", controllers.AdminLogin)

		admin.Use(middleware.AdminAuthMiddleware())
		{
			// Course management
			admin.POST("/courses", controllers.CreateCourse)
			admin.GET("/courses", controllers.GetAdminCourses)
			admin.PUT("/courses/:id", controllers.UpdateCourse)
			admin.DELETE("/courses/:id", controllers.DeleteCourse)

			// Teacher management
			admin.POST("/teachers", controllers.CreateTeacher)
			admin.GET("/teachers", controllers.GetTeachers)
			admin.PUT("/teachers/:id", controllers.UpdateTeacher)
			admin.DELETE("/teachers/:id", controllers.DeleteTeacher)

			// Coupon management
			admin.POST("/coupons", controllers.CreateCoupon)
			admin.GET("/coupons", controllers.GetCoupons)
			admin.PUT("/coupons/:id", controllers.UpdateCoupon)
			admin.DELETE("/coupons/:id", controllers.DeleteCoupon)

			// Enrollment oversight
			admin.GET("/enrollments", controllers.GetEnrollments)
			admin.GET("/enrollments/:id", controllers.GetEnrollmentDetails)
			admin.GET("/invoices", controllers.GetInvoices)

			// Manual payment review
			admin.GET("/manual-payments", controllers.ListManualPayments)
			admin.POST("/manual-payments/:id/review", controllers.ReviewManualPayment)

			// Certificates
			admin.POST("/certificates", controllers.IssueCertificate)

			// Revenue reporting
			admin.GET("/reports/revenue", controllers.GetRevenueReport)
			admin.GET("/reports/revenue/excel", controllers.DownloadRevenueReportExcel)
		}
	}
}
