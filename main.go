package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/himashiprops/estate-backend/api"
	"github.com/himashiprops/estate-backend/config"
	"github.com/himashiprops/estate-backend/otp"
	"github.com/himashiprops/estate-backend/utils"
)

func main() {
	config.LoadConfig()

	// Initialize MongoDB
	if err := utils.ConnectMongo(config.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := utils.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	auth := api.NewAuthHandler(otp.NewStore())

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, PATCH, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return corsMiddleware(api.Protect(api.RequireAdmin(next)))
	}
	user := func(next http.HandlerFunc) http.HandlerFunc {
		return corsMiddleware(api.Protect(api.RequireUser(next)))
	}

	mux := http.NewServeMux()

	// Method-scoped patterns never match preflight requests, so OPTIONS is
	// answered globally by the CORS layer.
	mux.HandleFunc("OPTIONS /", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {}))

	mux.HandleFunc("GET /", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			utils.RespondError(w, nil, "Not found", http.StatusNotFound)
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	// Auth routes
	mux.HandleFunc("POST /api/admin/auth/login", corsMiddleware(auth.AdminLoginHandler))
	mux.HandleFunc("POST /api/admin/auth/verify-otp", corsMiddleware(auth.VerifyAdminOTPHandler))
	mux.HandleFunc("POST /api/auth/signup", corsMiddleware(auth.SignupHandler))
	mux.HandleFunc("POST /api/auth/signup/verify-otp", corsMiddleware(auth.VerifySignupOTPHandler))
	mux.HandleFunc("POST /api/auth/login", corsMiddleware(auth.LoginHandler))
	mux.HandleFunc("POST /api/auth/login/verify-otp", corsMiddleware(auth.VerifyLoginOTPHandler))

	// Property routes
	mux.HandleFunc("GET /api/properties", corsMiddleware(api.ListPropertiesHandler))
	mux.HandleFunc("GET /api/properties/search", corsMiddleware(api.SearchPropertiesHandler))
	mux.HandleFunc("GET /api/properties/{id}", corsMiddleware(api.GetPropertyHandler))
	mux.HandleFunc("POST /api/properties", admin(api.CreatePropertyHandler))
	mux.HandleFunc("PUT /api/properties/{id}", admin(api.UpdatePropertyHandler))
	mux.HandleFunc("DELETE /api/properties/{id}", admin(api.DeletePropertyHandler))

	// Inquiry routes
	mux.HandleFunc("POST /api/properties/{propertyId}/queries", user(api.CreatePropertyQueryHandler))
	mux.HandleFunc("GET /api/properties/{propertyId}/queries", corsMiddleware(api.Protect(api.ListPropertyQueriesHandler)))
	mux.HandleFunc("GET /api/queries", admin(api.ListAllQueriesHandler))
	mux.HandleFunc("GET /api/queries/search", admin(api.SearchAllQueriesHandler))
	mux.HandleFunc("PATCH /api/queries/{id}", admin(api.UpdateQueryHandler))

	// Rating routes
	mux.HandleFunc("POST /api/properties/{propertyId}/ratings", user(api.CreatePropertyRatingHandler))
	mux.HandleFunc("GET /api/ratings", admin(api.ListAllRatingsHandler))
	mux.HandleFunc("GET /api/ratings/search", admin(api.SearchAllRatingsHandler))
	mux.HandleFunc("GET /api/ratings/{id}", admin(api.GetRatingHandler))

	// User admin routes
	mux.HandleFunc("GET /api/users", admin(api.ListAllUsersHandler))
	mux.HandleFunc("GET /api/users/search", admin(api.SearchAllUsersHandler))
	mux.HandleFunc("PATCH /api/users/{id}/block", admin(api.SetUserBlockedHandler))

	// Admin dashboard and outbound email
	mux.HandleFunc("GET /api/admin/stats", admin(api.WebsiteStatsHandler))
	mux.HandleFunc("POST /api/admin/email", admin(api.SendAdminEmailHandler))

	// Media uploads
	mux.HandleFunc("POST /api/upload/image", admin(api.UploadImageHandler))
	mux.HandleFunc("POST /api/upload/images", admin(api.UploadImagesHandler))
	mux.HandleFunc("POST /api/upload/video", admin(api.UploadVideoHandler))

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
