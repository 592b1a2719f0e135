package api

import (
	"net/http"
	"time"

	"github.com/randytsao24/gradecast/internal/api/handlers"
	"github.com/randytsao24/gradecast/internal/cache"
	"github.com/randytsao24/gradecast/internal/config"
	"github.com/randytsao24/gradecast/internal/mapview"
)

const defaultTimeout = 15 * time.Second

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(
	cfg *config.Config,
	data handlers.RestaurantSource,
	model handlers.GradePredictor,
	mapCache *cache.Cache[[]mapview.Row],
) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(data, model)
	rootHandler := handlers.NewRootHandler()
	restaurantHandler := handlers.NewRestaurantHandler(data)
	predictHandler := handlers.NewPredictHandler(data, model)
	mapHandler := handlers.NewMapHandler(data, mapCache)
	gradeHandler := handlers.NewGradeHandler()

	// Core routes
	mux.HandleFunc("GET /{$}", rootHandler.Index)
	mux.HandleFunc("GET /api", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("/", rootHandler.NotFound)

	// Restaurant routes
	mux.HandleFunc("GET /restaurants", restaurantHandler.List)
	mux.HandleFunc("GET /restaurants/boroughs", restaurantHandler.GetBoroughs)
	mux.HandleFunc("GET /restaurants/cuisines", restaurantHandler.GetCuisines)
	mux.HandleFunc("GET /restaurants/zipcodes", restaurantHandler.GetZipCodes)
	mux.HandleFunc("GET /restaurants/{camis}", restaurantHandler.Get)
	mux.HandleFunc("GET /restaurants/{camis}/popup", restaurantHandler.Popup)

	// Prediction routes
	mux.HandleFunc("GET /restaurants/{camis}/prediction", predictHandler.PredictRestaurant)
	mux.HandleFunc("POST /predict", predictHandler.Predict)

	// Map routes
	mux.HandleFunc("GET /map", mapHandler.Rows)
	mux.HandleFunc("GET /grades/colors", gradeHandler.Colors)

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// Apply middleware stack
	handler := Chain(mux,
		RequestID,
		Recovery,
		Logging,
		CORS,
		Timeout(timeout),
	)

	return handler
}
