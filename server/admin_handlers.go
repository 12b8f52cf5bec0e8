package server

import (
	"net/http"
	"strconv"

	"github.com/medilink/medilink/server/models"
)

type usersResponse struct {
	Users  []models.User  `json:"users"`
	Paging *models.Paging `json:"paging"`
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func adminStats(rw http.ResponseWriter, r *http.Request) {
	stats, err := models.CurrentStats()
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, stats, http.StatusOK)
}

func adminListUsers(rw http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	users, paging, err := models.FetchUsers(page)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, usersResponse{Users: users, Paging: paging}, http.StatusOK)
}

func adminGetUser(rw http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(rw, err)
		return
	}

	user, err := models.FindUser(id)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, user, http.StatusOK)
}

func adminUpdateUser(rw http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(rw, err)
		return
	}

	update := models.UserUpdate{}
	if err := decodeBody(r, &update); err != nil {
		writeError(rw, err)
		return
	}

	user, err := models.UpdateUser(id, update)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, user, http.StatusOK)
}

func adminDeleteUser(rw http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(rw, err)
		return
	}

	if id == callerFrom(r).UserID {
		writeError(rw, &models.ValidationError{Message: "admins cannot delete their own account"})
		return
	}

	if err := models.DeleteUser(id); err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, SuccessPayload{Success: true}, http.StatusOK)
}

func adminUpdateOrder(rw http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "order")
	if err != nil {
		writeError(rw, err)
		return
	}

	data := orderStatusRequest{}
	if err := decodeBody(r, &data); err != nil {
		writeError(rw, err)
		return
	}

	order, err := models.UpdateOrderStatus(id, data.Status)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, order, http.StatusOK)
}
