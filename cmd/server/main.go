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

	"github.com/cardtable/cabo/internal/handlers"
	"github.com/cardtable/cabo/internal/middleware"
)

func main() {
	logger := logrus.New()
	if os.Getenv("CABO_LOG_LEVEL") != "" {
		if lvl, err := logrus.ParseLevel(os.Getenv("CABO_LOG_LEVEL")); err == nil {
			logger.SetLevel(lvl)
		}
	}

	gs := handlers.NewGameServer(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.PingHandler)
	mux.HandleFunc("/game/new", gs.CreateGameHandler)
	mux.HandleFunc("/game/state/", gs.StateHandler)
	mux.HandleFunc("/game/delete/", gs.DeleteGameHandler)
	mux.HandleFunc("/game/ws/", handlers.GameWSHandler(logger, gs))

	server := &http.Server{
		Handler:     middleware.LogMiddleware(logger)(mux),
		ReadTimeout: time.Second * 10,
		// No WriteTimeout: WebSocket connections outlive any sane value.
	}

	port := os.Getenv("CABO_SERVICE_PORT")
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
