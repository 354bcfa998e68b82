/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
meal-advice service into the router.
*/
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"nutrikid/internal/llamaservice"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// advisor produces the meal reports served by this surface.
	advisor *llamaservice.Service

	// Echo is the underlying web framework instance.
	*echo.Echo
}

// startTime anchors the uptime figure reported by the status endpoints.
var startTime = time.Now()

// NewServer initializes a new Server instance and returns a configured
// *http.Server. It reads the port from the environment and sets
// production-ready network timeouts.
func NewServer(advisor *llamaservice.Service) *http.Server {
	// Attempt to parse port from environment; fallback to 8080 if not set or invalid.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	newApp := &Server{
		port:    port,
		advisor: advisor,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", newApp.port),
		Handler:      newApp.RegisterRoutes(), // Injected from routes.go
		IdleTimeout:  time.Minute,             // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second,        // Maximum duration for reading the entire request.
		WriteTimeout: 30 * time.Second,        // Maximum duration before timing out writes of the response.
	}

	return server
}
