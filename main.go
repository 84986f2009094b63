package main

import (
	"fmt"
	"log"
	"os"

	"dentaquote-backend/config"
	"dentaquote-backend/controllers"
	"dentaquote-backend/models"
	"dentaquote-backend/routes"
	"dentaquote-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Clinic{},
		&models.User{},
		&models.Treatment{},
		&models.PromoCode{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.NotificationLog{},
	)
}

func main() {
	controllers.Notifier = services.NewNotifierService(config.DB, services.NewSMTPSender())

	maintenance := services.NewMaintenanceService(config.DB)
	maintenance.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
