package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/school-transit/internal/auth"
	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/fanout"
	"github.com/ukydev/school-transit/internal/handlers"
	"github.com/ukydev/school-transit/internal/middleware"
	"github.com/ukydev/school-transit/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}
	configureLogging()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "school_transit"
	}
	collections := db.NewCollections(client.Database(dbName))

	mqttClient, err := fanout.ConnectMQTT()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	log.Info("Connected to MQTT broker")

	router := fanout.NewRouter(&fanout.MQTTPublisher{Client: mqttClient, QoS: 1})
	if err := router.Listen(mqttClient); err != nil {
		log.WithError(err).Fatal("Failed to subscribe to the connection topic")
	}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize auth service")
	}

	dispatchService := service.NewDispatchLogService(
		collections.DispatchLogs, collections.Trips, collections.Students,
		collections.Schools, collections.Vehicles, collections.Drivers)
	ledger := service.NewTripStatusLedger(collections.Trips, collections.TripStatuses)
	store := service.NewNotificationStore(collections.Notifications, collections.DispatchLogs)
	orchestrator := service.NewOrchestrator(dispatchService, ledger, store, router, collections.Students)
	tripService := service.NewTripService(collections.Trips, collections.Schools, collections.Vehicles)
	assignmentService := service.NewAssignmentService(
		collections.Assignments, collections.SchoolVehicles,
		collections.Vehicles, collections.Schools, router)

	deps := &routerDeps{
		authMiddleware: middleware.NewAuthMiddleware(authService),
		rateLimit:      middleware.NewRateLimitMiddleware(),
		auth:           handlers.NewAuthHandler(authService, collections.Users),
		trips:          handlers.NewTripHandler(tripService, ledger),
		dispatch:       handlers.NewDispatchHandler(orchestrator, dispatchService),
		notifications:  handlers.NewNotificationHandler(store),
		assignments:    handlers.NewAssignmentHandler(assignmentService),
		refs: handlers.NewRefHandler(
			collections.Schools, collections.Vehicles,
			collections.Drivers, collections.Students),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.WithField("port", port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+port, routes(deps)); err != nil {
		log.WithError(err).Fatal("HTTP server stopped")
	}
}

func configureLogging() {
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
}
