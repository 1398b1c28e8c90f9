package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/services"
	"github.com/aidostt/wanderstay/pkg/logger"
	"github.com/aidostt/wanderstay/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingHandler manages HTTP endpoints for bookings.
type BookingHandler struct {
	Service *services.BookingService
}

// NewBookingHandler initializes a new BookingHandler.
func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{Service: service}
}

// CreateBookingHandler books a listing for the caller.
func (h *BookingHandler) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		ListingID  string    `json:"listing_id"`
		CheckIn    time.Time `json:"check_in"`
		CheckOut   time.Time `json:"check_out"`
		Guests     int       `json:"guests"`
		TotalPrice float64   `json:"total_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	listingID, err := primitive.ObjectIDFromHex(body.ListingID)
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	guestID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	booking := &models.Booking{
		GuestID:    guestID,
		ListingID:  listingID,
		CheckIn:    body.CheckIn,
		CheckOut:   body.CheckOut,
		Guests:     body.Guests,
		TotalPrice: body.TotalPrice,
	}

	created, err := h.Service.CreateBooking(r.Context(), booking)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logger.Log.Warnf("Failed to create booking: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// UpdateBookingStatusHandler lets the host confirm or cancel a booking.
func (h *BookingHandler) UpdateBookingStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}
	callerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	booking, err := h.Service.UpdateBookingStatus(r.Context(), bookingID, callerID, body.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logger.Log.Warnf("Failed to update booking %s: %v", vars["id"], err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

// GetMyBookingsHandler returns the caller's bookings.
func (h *BookingHandler) GetMyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	guestID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	bookings, err := h.Service.GetBookingsByGuest(r.Context(), guestID)
	if err != nil {
		http.Error(w, "Failed to get bookings", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to get bookings for %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}
