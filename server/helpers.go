package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/medilink/medilink/server/auth"
	"github.com/medilink/medilink/server/models"
	"github.com/pkg/errors"
)

type ErrorPayload struct {
	Error string `json:"error"`
}

type SuccessPayload struct {
	Success bool `json:"success"`
}

type RequestContextKey string

// Caller is the authenticated user behind a request
type Caller struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

type DecodedSession struct {
	Caller   *Caller
	ErrorMsg string
}

var errMalformedBody = &models.ValidationError{Message: "malformed JSON body"}

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad interface{}, statusCode int) {
	if errPayload, ok := payLoad.(ErrorPayload); ok && statusCode < http.StatusInternalServerError {
		logg.Info(errPayload.Error)
	}

	rw.WriteHeader(statusCode)
	err := json.NewEncoder(rw).Encode(payLoad)
	if err != nil {
		logg.Errorf("writeResponse: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a generic 500.
func writeError(rw http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var conflictErr *models.ConflictError

	switch {
	case errors.As(err, &validationErr):
		writeResponse(rw, ErrorPayload{Error: validationErr.Error()}, http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		writeResponse(rw, ErrorPayload{Error: notFoundErr.Error()}, http.StatusNotFound)
	case errors.As(err, &conflictErr):
		writeResponse(rw, ErrorPayload{Error: conflictErr.Error()}, http.StatusConflict)
	default:
		logg.Error(err)
		writeResponse(rw, ErrorPayload{Error: "internal server error"}, http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, dest interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dest)
	if err != nil {
		return errMalformedBody
	}
	return nil
}

// pathID reads the numeric {id} route variable. Ids that don't fit a uint
// can't exist, so they are reported as missing.
func pathID(r *http.Request, resource string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 0)
	if err != nil || id == 0 {
		return 0, &models.NotFoundError{Resource: resource}
	}
	return uint(id), nil
}

func callerFrom(r *http.Request) *Caller {
	session, _ := r.Context().Value(RequestContextKey("session")).(DecodedSession)
	return session.Caller
}

// ---------------------------------------------------------------------------------//
// Middleware Helper functions
// --------------------------------------------------------------------------------//

// sessionToken looks for the session cookie first and falls back to a bearer token
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeaderList := strings.Split(r.Header.Get("Authorization"), "Bearer ")
	if len(authHeaderList) < 2 {
		return ""
	}
	return strings.TrimSpace(authHeaderList[1])
}

func decodeAndVerifySession(r *http.Request) DecodedSession {
	token := sessionToken(r)
	if token == "" {
		return DecodedSession{ErrorMsg: "authentication required"}
	}

	claims, err := auth.DecodeJWT(token, authKeyPair)
	if err != nil {
		return DecodedSession{ErrorMsg: "invalid session"}
	}

	userID, err := claims.UserID()
	if err != nil {
		return DecodedSession{ErrorMsg: "invalid session"}
	}

	// validate that the user account still exists
	user, err := models.FindUser(userID)
	if err != nil {
		return DecodedSession{ErrorMsg: "invalid session"}
	}

	return DecodedSession{Caller: &Caller{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}}
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("MediLink server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(server *http.Server) {
	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("MediLink server shutdown failed:%+s", err)
	}

	if err := models.Close(); err != nil {
		logg.Errorf("closing database: %v", err)
	}

	logg.Infof("MediLink server stopped properly")
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
