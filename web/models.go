package web

import (
	"prediction-league/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	API  *api.API
}

// Server is the HTTP server that handles the read-only league endpoints and the
// results webhook
type Server struct {
	api *api.API
}
