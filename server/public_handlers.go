package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/medilink/medilink/server/auth/key"
	"github.com/medilink/medilink/server/models"
)

func publicProfile(rw http.ResponseWriter, r *http.Request) {
	profile, err := models.PublicProfile(mux.Vars(r)["username"])
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, profile, http.StatusOK)
}

func jwks(rw http.ResponseWriter, r *http.Request) {
	publicJWK, err := authKeyPair.JWK()
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, key.ExportJWKAsJWKS(publicJWK), http.StatusOK)
}

func healthCheck(rw http.ResponseWriter, r *http.Request) {
	if err := models.Ping(); err != nil {
		logg.Error(err)
		writeResponse(rw, ErrorPayload{Error: "database unavailable"}, http.StatusServiceUnavailable)
		return
	}

	writeResponse(rw, SuccessPayload{Success: true}, http.StatusOK)
}
