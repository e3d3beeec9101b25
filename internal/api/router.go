package api

import (
	"net/http"

	_ "github.com/AlexZinkM/ton-boc-backend/docs"
	"github.com/AlexZinkM/ton-boc-backend/internal/handler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(tonHandler *handler.TonHandler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Ops
	mux.HandleFunc("/health", tonHandler.Health)
	mux.Handle("/metrics", promhttp.Handler())

	// TON endpoints
	mux.HandleFunc("/generate-boc", tonHandler.GenerateBOC)

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}
