package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mtran/switchstack/internal/auth"
	"github.com/mtran/switchstack/internal/cache"
	"github.com/mtran/switchstack/internal/database"
	"github.com/mtran/switchstack/internal/engine"
	"github.com/mtran/switchstack/internal/handlers"
	"github.com/mtran/switchstack/internal/middleware"
	"github.com/mtran/switchstack/internal/room"
)

func main() {
	logger := logrus.New()
	for _, arg := range os.Args[1:] {
		if arg == "-v" {
			logger.SetLevel(logrus.DebugLevel)
			logger.Debug("verbose mode enabled")
		}
	}

	database.ConnectDB()
	defer database.DB.Close()

	if err := cache.ConnectRedis(); err != nil {
		logger.Fatalf("failed to connect to Redis: %v", err)
	}

	auth.Init()

	rooms := room.NewStore(logger)
	rooms.Persist = database.UpsertRoom

	eng := engine.New(engine.Config{
		Logger: logger,
		Rooms:  rooms,
		Store:  database.GameStates{},
		Moves:  cache.MoveQueue{},
	})

	gs := handlers.NewGameServer(eng, rooms, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})

	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)
	mux.HandleFunc("/user/claim", handlers.ClaimEphemeralHandler)

	mux.HandleFunc("/rooms/create", handlers.CreateRoomHandler(gs))
	mux.HandleFunc("/rooms/list", handlers.ListRoomsHandler(gs))
	mux.HandleFunc("/rooms/join/", handlers.JoinRoomHandler(gs))
	mux.HandleFunc("/rooms/leave/", handlers.LeaveRoomHandler(gs))
	mux.HandleFunc("/rooms/ws/", handlers.RoomWSHandler(logger, gs))

	server := &http.Server{
		Handler:      middleware.LogMiddleware(logger)(mux),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	}

	port := os.Getenv("SWITCHSTACK_SERVICE_PORT")
	if port == "" {
		port = "8080"
	}
	l, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}

	logger.Infof("listening on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
}
