package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/ashokkumar272/BuddyOnTrain/config"
	"github.com/ashokkumar272/BuddyOnTrain/handlers"
	"github.com/ashokkumar272/BuddyOnTrain/middleware"
	"github.com/ashokkumar272/BuddyOnTrain/services"
	"github.com/ashokkumar272/BuddyOnTrain/stations"
	"github.com/ashokkumar272/BuddyOnTrain/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment configuration")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	db := config.ConnectMongo()
	redisClient := config.ConnectRedis()

	stationsFile := os.Getenv("STATIONS_FILE")
	if stationsFile == "" {
		stationsFile = "./data/railway_stations.json"
	}
	trainsFile := os.Getenv("TRAINS_FILE")
	if trainsFile == "" {
		trainsFile = "./data/trains.json"
	}

	// Services
	directory := stations.NewDirectory(stationsFile)
	userService := services.NewUserService(db, redisClient, jwtSecret)
	buddyService := services.NewBuddyService(userService.Collection(), directory)
	friendService := services.NewFriendService(db, userService.Collection())
	messageService := services.NewMessageService(db)
	trainService := services.NewTrainService(trainsFile)

	// Presence backs the chat relay; Redis keeps it across restarts and
	// instances, memory is the single-process fallback.
	var presence ws.Presence
	if redisClient != nil {
		presence = ws.NewRedisPresence(redisClient)
	} else {
		presence = ws.NewMemoryPresence()
	}
	hub := ws.NewHub()
	chatRelay := ws.NewChatRelay(hub, presence, messageService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, buddyService)
	friendHandler := handlers.NewFriendHandler(friendService, userService)
	messageHandler := handlers.NewMessageHandler(messageService)
	stationHandler := handlers.NewStationHandler(directory)
	trainHandler := handlers.NewTrainHandler(trainService)

	r := mux.NewRouter()

	r.Use(middleware.CORSMiddleware(middleware.AllowedOrigins()))
	r.Use(middleware.ErrorMiddleware())

	protect := middleware.JWTMiddleware(jwtSecret)
	optionalAuth := middleware.OptionalJWTMiddleware(jwtSecret)

	// Train search
	r.HandleFunc("/api/trains", trainHandler.FindTrains).Methods("GET", "OPTIONS")

	// Station directory
	stationRouter := r.PathPrefix("/api/stations").Subrouter()
	stationRouter.HandleFunc("/suggestions", stationHandler.GetSuggestions).Methods("GET", "OPTIONS")
	stationRouter.HandleFunc("/cities", stationHandler.GetCities).Methods("GET", "OPTIONS")
	stationRouter.HandleFunc("/city/{cityKey}", stationHandler.GetStationsByCity).Methods("GET", "OPTIONS")
	stationRouter.HandleFunc("/station/{stationCode}", stationHandler.GetStationDetails).Methods("GET", "OPTIONS")
	stationRouter.HandleFunc("/city-by-station/{stationCode}", stationHandler.GetCityByStation).Methods("GET", "OPTIONS")

	// Users: public auth routes plus the optional-auth buddy search
	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("/register", authHandler.RegisterUser).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/login", authHandler.LoginUser).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/logout", authHandler.LogoutUser).Methods("POST", "OPTIONS")
	userRouter.Handle("/travel-buddies", optionalAuth(http.HandlerFunc(userHandler.FindTravelBuddies))).Methods("GET", "OPTIONS")
	userRouter.Handle("/me", protect(http.HandlerFunc(userHandler.GetCurrentUser))).Methods("GET", "OPTIONS")
	userRouter.Handle("/profile", protect(http.HandlerFunc(userHandler.UpdateProfile))).Methods("PUT", "OPTIONS")
	userRouter.Handle("/travel-status", protect(http.HandlerFunc(userHandler.UpdateTravelStatus))).Methods("PUT", "OPTIONS")
	userRouter.Handle("/friends", protect(http.HandlerFunc(userHandler.GetFriends))).Methods("GET", "OPTIONS")
	userRouter.Handle("/profile/{id}", protect(http.HandlerFunc(userHandler.GetUserByID))).Methods("GET", "OPTIONS")

	// Friend graph
	friendRouter := r.PathPrefix("/api/friends").Subrouter()
	friendRouter.Use(protect)
	friendRouter.HandleFunc("/request", friendHandler.SendFriendRequest).Methods("POST", "OPTIONS")
	friendRouter.HandleFunc("/requests", friendHandler.GetFriendRequests).Methods("GET", "OPTIONS")
	friendRouter.HandleFunc("/respond", friendHandler.RespondToFriendRequest).Methods("POST", "OPTIONS")
	friendRouter.HandleFunc("/list", friendHandler.GetFriendsList).Methods("GET", "OPTIONS")
	friendRouter.HandleFunc("/remove", friendHandler.RemoveFriend).Methods("DELETE", "OPTIONS")

	// Chat
	messageRouter := r.PathPrefix("/api/messages").Subrouter()
	messageRouter.Use(protect)
	messageRouter.HandleFunc("/send", messageHandler.SendMessage).Methods("POST", "OPTIONS")
	messageRouter.HandleFunc("/{userId}", messageHandler.GetChatHistory).Methods("GET", "OPTIONS")
	messageRouter.HandleFunc("/{userId}/read", messageHandler.MarkMessagesAsRead).Methods("PUT", "OPTIONS")

	// Real-time chat channel
	r.HandleFunc("/ws", chatRelay.Handle)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	srv := &http.Server{
		Handler:           r,
		Addr:              ":" + port,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Server running on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
}
