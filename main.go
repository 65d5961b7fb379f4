package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-reservation-backend/config"
	"hotel-reservation-backend/controllers"
	"hotel-reservation-backend/routes"
	"hotel-reservation-backend/services"
	"hotel-reservation-backend/store"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied")

	st := store.NewGormStore(db)

	reservationService := services.NewReservationService(st)
	roomService := services.NewRoomService(st)
	clientService := services.NewClientService(st)

	reservationController := controllers.NewReservationController(reservationService)
	roomController := controllers.NewRoomController(roomService)
	clientController := controllers.NewClientController(clientService)

	router := routes.SetupRouter(reservationController, roomController, clientController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
