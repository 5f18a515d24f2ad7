package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/invensync/invensync/internal/recognition/client"
	"github.com/invensync/invensync/pkg/logger"
)

// Recognizer extracts product details from packaging photos
type Recognizer interface {
	RecognizeProduct(ctx context.Context, frontImageBase64, backImageBase64 string) (*client.RecognizedProduct, error)
}

// RecognitionHandler handles product recognition requests
type RecognitionHandler struct {
	recognizer Recognizer
}

func NewRecognitionHandler(recognizer Recognizer) *RecognitionHandler {
	return &RecognitionHandler{recognizer: recognizer}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type recognizeRequest struct {
	FrontImage string `json:"frontImage"`
	BackImage  string `json:"backImage"`
}

// RecognizeProduct handles POST /api/recognition/product
func (h *RecognitionHandler) RecognizeProduct(w http.ResponseWriter, r *http.Request) {
	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if req.FrontImage == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "frontImage is required"})
		return
	}

	product, err := h.recognizer.RecognizeProduct(r.Context(), req.FrontImage, req.BackImage)
	if err != nil {
		if errors.Is(err, client.ErrNoItem) {
			respondJSON(w, http.StatusUnprocessableEntity, Response{Success: false, Error: "No product detected in the image"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Product recognition failed")
		respondJSON(w, http.StatusBadGateway, Response{Success: false, Error: "Recognition service unavailable"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// RegisterRoutes registers recognition routes
func (h *RecognitionHandler) RegisterRoutes(router *mux.Router, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/recognition/product", authMiddleware(h.RecognizeProduct)).Methods("POST")
}

func respondJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
