package api

import (
	"encoding/json"
	"io"
	"net/http"

	"kycflow/internal/kyc"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// NewKYCRouter serves the stub KYC verifier
func NewKYCRouter(verifier *kyc.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDHandler)
	r.Use(accessLogHandler)
	r.Use(middleware.Recoverer)

	r.Post("/verify-kyc", handleVerifyKYC(verifier))
	return r
}

func handleVerifyKYC(verifier *kyc.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kyc.Request
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": err.Error()})
			return
		}
		var extra json.RawMessage
		if err := dec.Decode(&extra); err != io.EOF {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": "unexpected data after JSON body"})
			return
		}
		if err := req.Validate(); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, verifier.Verify(req))
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
