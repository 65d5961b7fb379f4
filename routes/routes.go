package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-reservation-backend/controllers"
	"hotel-reservation-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	rc *controllers.ReservationController,
	rmc *controllers.RoomController,
	cc *controllers.ClientController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.List)
			reservations.GET("/:id", rc.Get)
			reservations.POST("", rc.Create)
			reservations.PUT("/:id", rc.Update)
			reservations.PATCH("/:id/status", rc.UpdateStatus)
			reservations.DELETE("/:id", rc.Delete)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rmc.List)
			rooms.GET("/:id", rmc.Get)
			rooms.POST("", rmc.Create)
			rooms.PUT("/:id", rmc.Update)
			rooms.DELETE("/:id", rmc.Delete)
		}

		clients := api.Group("/clients")
		{
			clients.GET("", cc.List)
			clients.GET("/:id", cc.Get)
			clients.POST("", cc.Create)
			clients.PUT("/:id", cc.Update)
			clients.DELETE("/:id", cc.Delete)
		}
	}

	return r
}
