package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/services"
	"github.com/aidostt/wanderstay/pkg/logger"
	"github.com/aidostt/wanderstay/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingHandler manages HTTP endpoints for listings.
type ListingHandler struct {
	Service *services.ListingService
}

// NewListingHandler initializes a new ListingHandler.
func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{Service: service}
}

// CreateListingHandler creates a listing owned by the caller.
func (h *ListingHandler) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var listing models.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	listing.OwnerID = ownerID

	created, err := h.Service.CreateListing(r.Context(), &listing)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logger.Log.Warnf("Failed to create listing: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetListingHandler returns one listing.
func (h *ListingHandler) GetListingHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	listing, err := h.Service.GetListing(r.Context(), vars["id"])
	if err != nil {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

// GetMyListingsHandler returns the caller's listings.
func (h *ListingHandler) GetMyListingsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	listings, err := h.Service.GetListingsByOwner(r.Context(), ownerID)
	if err != nil {
		http.Error(w, "Failed to get listings", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to get listings for %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listings)
}
