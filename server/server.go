package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/medilink/medilink/server/auth/key"
	"github.com/medilink/medilink/server/logger"
	"github.com/medilink/medilink/server/models"
	"github.com/spf13/viper"
)

var (
	logg              = logger.NewLogger()
	authKeyPair       *key.KeyPair
	sessionCookieName = DEFAULT_SESSION_COOKIE
)

// Start runs the API until the process receives SIGINT/SIGTERM
func Start(configValues *viper.Viper, devMode bool) {
	config, err := LoadConfig(configValues, devMode)
	fatalOnError(err)

	logg = logger.NewLogger(config.MediLink.LogLevel)
	sessionCookieName = config.MediLink.Session.CookieName

	authKeyPair, err = key.NewKeyPairFromRSAPrivateKeyPem(config.MediLink.PrivateKeyPem)
	fatalOnError(err)

	err = models.Open(*config, devMode)
	fatalOnError(err)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", config.MediLink.Listener.Port),
		Handler: newRouter(),
	}

	go serve(server)

	// Wait for a shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cleanup(server)
}

func newRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware, initialContextMiddleware)

	router.HandleFunc("/healthz", healthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/jwks", jwks).Methods(http.MethodGet)
	api.HandleFunc("/public/{username}", publicProfile).Methods(http.MethodGet)
	api.HandleFunc("/products", listProducts).Methods(http.MethodGet)

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(protectedRouteMiddleware, adminRouteMiddleware)
	adminRouter.HandleFunc("/stats", adminStats).Methods(http.MethodGet)
	adminRouter.HandleFunc("/users", adminListUsers).Methods(http.MethodGet)
	adminRouter.HandleFunc("/users/{id:[0-9]+}", adminGetUser).Methods(http.MethodGet)
	adminRouter.HandleFunc("/users/{id:[0-9]+}", adminUpdateUser).Methods(http.MethodPut)
	adminRouter.HandleFunc("/users/{id:[0-9]+}", adminDeleteUser).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/orders/{id:[0-9]+}", adminUpdateOrder).Methods(http.MethodPut)

	protectedRouter := api.NewRoute().Subrouter()
	protectedRouter.Use(protectedRouteMiddleware)

	protectedRouter.HandleFunc("/page", getPage).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/page", createPage).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/page", updatePage).Methods(http.MethodPut)

	registerOrderedRoutes(protectedRouter, "/page/medicines", orderedResource[models.Medicine, models.MedicineInput]{
		name:     "medicine",
		idsField: "medicineIds",
		list:     (*models.Page).ListMedicines,
		create:   (*models.Page).AddMedicine,
		update:   (*models.Page).UpdateMedicine,
		remove:   (*models.Page).DeleteMedicine,
		reorder:  (*models.Page).ReorderMedicines,
	})
	registerOrderedRoutes(protectedRouter, "/page/allergies", orderedResource[models.Allergy, models.AllergyInput]{
		name:     "allergy",
		idsField: "allergyIds",
		list:     (*models.Page).ListAllergies,
		create:   (*models.Page).AddAllergy,
		update:   (*models.Page).UpdateAllergy,
		remove:   (*models.Page).DeleteAllergy,
		reorder:  (*models.Page).ReorderAllergies,
	})
	registerOrderedRoutes(protectedRouter, "/page/diagnoses", orderedResource[models.Diagnosis, models.DiagnosisInput]{
		name:     "diagnosis",
		idsField: "diagnosisIds",
		list:     (*models.Page).ListDiagnoses,
		create:   (*models.Page).AddDiagnosis,
		update:   (*models.Page).UpdateDiagnosis,
		remove:   (*models.Page).DeleteDiagnosis,
		reorder:  (*models.Page).ReorderDiagnoses,
	})

	protectedRouter.HandleFunc("/page/emergency-contacts", withPage(listEmergencyContacts)).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/page/emergency-contacts", withPage(createEmergencyContact)).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/page/emergency-contacts/{id:[0-9]+}", withPage(updateEmergencyContact)).Methods(http.MethodPut)
	protectedRouter.HandleFunc("/page/emergency-contacts/{id:[0-9]+}", withPage(deleteEmergencyContact)).Methods(http.MethodDelete)

	protectedRouter.HandleFunc("/notifications", listNotifications).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/notifications", markNotifications).Methods(http.MethodPatch)

	protectedRouter.HandleFunc("/user/username", getUsername).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/user/username", setUsername).Methods(http.MethodPost)

	protectedRouter.HandleFunc("/orders", listOrders).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/orders", createOrder).Methods(http.MethodPost)

	router.NotFoundHandler = errorHandler("route not found", http.StatusNotFound)
	router.MethodNotAllowedHandler = errorHandler("method not allowed", http.StatusMethodNotAllowed)

	return router
}

// errorHandler answers unmatched requests, which skip the router's middlewares
func errorHandler(message string, statusCode int) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		writeResponse(rw, ErrorPayload{Error: message}, statusCode)
	})
}
