package routes

import (
	"os"
	"strings"

	"dentaquote-backend/config"
	"dentaquote-backend/controllers"
	"dentaquote-backend/models"
	"dentaquote-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.RequestLogger())

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
		auth.PUT("/profile", controllers.UpdateProfile)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Treatment catalog (read side, any authenticated user)
		api.GET("/treatments", controllers.GetTreatments)

		// Quote routes (ownership checks inside the handlers)
		quotes := api.Group("/quotes")
		{
			quotes.POST("", controllers.CreateQuote)
			quotes.GET("", controllers.GetQuotes)
			quotes.GET("/:id", controllers.GetQuote)
			quotes.PUT("/:id", controllers.UpdateQuote)
			quotes.POST("/:id/promo", controllers.ApplyPromo)
			quotes.DELETE("/:id/promo", controllers.RemovePromo)
			quotes.POST("/:id/finalize", controllers.FinalizeQuote)
			quotes.GET("/:id/pdf", controllers.ExportQuotePDF)
		}

		// Promo validation surface
		api.POST("/promo-codes/validate", controllers.ValidatePromoCode)

		// Clinic staff portal
		clinic := api.Group("/clinic", utils.RequireRole(models.RoleClinicStaff))
		{
			clinic.GET("/quotes", controllers.GetClinicQuotes)
		}

		// Admin portal
		admin := api.Group("/admin", utils.RequireRole(models.RoleAdmin))
		{
			admin.GET("/auth/user", controllers.AdminAuthUser)
			admin.GET("/dashboard", controllers.GetDashboardOverview)

			treatments := admin.Group("/treatments")
			{
				treatments.POST("", controllers.CreateTreatment)
				treatments.GET("", controllers.GetAllTreatments)
				treatments.PUT("/:id", controllers.UpdateTreatment)
				treatments.DELETE("/:id", controllers.DeleteTreatment)
			}

			clinics := admin.Group("/clinics")
			{
				clinics.POST("", controllers.CreateClinic)
				clinics.GET("", controllers.GetClinics)
				clinics.GET("/:id", controllers.GetClinic)
				clinics.PUT("/:id", controllers.UpdateClinic)
				clinics.DELETE("/:id", controllers.DeleteClinic)
			}

			promoCodes := admin.Group("/promo-codes")
			{
				promoCodes.POST("", controllers.CreatePromoCode)
				promoCodes.GET("", controllers.GetPromoCodes)
				promoCodes.GET("/:id", controllers.GetPromoCode)
				promoCodes.PUT("/:id", controllers.UpdatePromoCode)
				promoCodes.DELETE("/:id", controllers.DeletePromoCode)
			}

			users := admin.Group("/users")
			{
				users.POST("", controllers.CreateUser)
				users.GET("", controllers.GetUsers)
				users.PUT("/:id", controllers.UpdateUser)
				users.DELETE("/:id", controllers.DeleteUser)
			}
		}
	}

	return r
}
