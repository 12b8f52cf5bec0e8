package server

import (
	"net/http"

	"github.com/medilink/medilink/server/models"
)

type markNotificationsRequest struct {
	NotificationID uint `json:"notificationId"`
	MarkAll        bool `json:"markAll"`
}

type usernameRequest struct {
	Username string `json:"username"`
}

type usernameResponse struct {
	Username *string `json:"username"`
}

func listNotifications(rw http.ResponseWriter, r *http.Request) {
	feed, err := models.NotificationsFor(callerFrom(r).UserID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, feed, http.StatusOK)
}

func markNotifications(rw http.ResponseWriter, r *http.Request) {
	userID := callerFrom(r).UserID

	data := markNotificationsRequest{}
	if err := decodeBody(r, &data); err != nil {
		writeError(rw, err)
		return
	}

	var err error
	switch {
	case data.MarkAll:
		err = models.MarkAllNotificationsRead(userID)
	case data.NotificationID > 0:
		err = models.MarkNotificationRead(userID, data.NotificationID)
	default:
		err = &models.ValidationError{Message: "notificationId or markAll is required"}
	}

	if err != nil {
		writeError(rw, err)
		return
	}

	feed, err := models.NotificationsFor(userID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, feed, http.StatusOK)
}

func getUsername(rw http.ResponseWriter, r *http.Request) {
	user, err := models.FindUser(callerFrom(r).UserID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, usernameResponse{Username: user.Username}, http.StatusOK)
}

func setUsername(rw http.ResponseWriter, r *http.Request) {
	data := usernameRequest{}
	if err := decodeBody(r, &data); err != nil {
		writeError(rw, err)
		return
	}

	username, err := models.SetUsername(callerFrom(r).UserID, data.Username)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, usernameResponse{Username: &username}, http.StatusOK)
}

func listProducts(rw http.ResponseWriter, r *http.Request) {
	products, err := models.ActiveProducts()
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, products, http.StatusOK)
}

func listOrders(rw http.ResponseWriter, r *http.Request) {
	orders, err := models.OrdersFor(callerFrom(r).UserID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, orders, http.StatusOK)
}

func createOrder(rw http.ResponseWriter, r *http.Request) {
	input := models.OrderInput{}
	if err := decodeBody(r, &input); err != nil {
		writeError(rw, err)
		return
	}

	order, err := models.CreateOrder(callerFrom(r).UserID, input)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, order, http.StatusCreated)
}
