package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/medilink/medilink/server/models"
)

type pageHandlerFunc func(rw http.ResponseWriter, r *http.Request, page *models.Page)

// withPage resolves the caller's page before handing off to handler.
// Callers without a page get a 404.
func withPage(handler pageHandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		page, err := models.FindPageByUser(callerFrom(r).UserID)
		if err != nil {
			writeError(rw, err)
			return
		}

		handler(rw, r, page)
	}
}

func getPage(rw http.ResponseWriter, r *http.Request) {
	page, err := models.FindPageByUser(callerFrom(r).UserID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, page, http.StatusOK)
}

func createPage(rw http.ResponseWriter, r *http.Request) {
	input := models.PageInput{}
	if err := decodeBody(r, &input); err != nil {
		writeError(rw, err)
		return
	}

	page, err := models.CreatePage(callerFrom(r).UserID, input)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, page, http.StatusCreated)
}

func updatePage(rw http.ResponseWriter, r *http.Request) {
	withPage(func(rw http.ResponseWriter, r *http.Request, page *models.Page) {
		input := models.PageInput{}
		if err := decodeBody(r, &input); err != nil {
			writeError(rw, err)
			return
		}

		if err := page.Update(input); err != nil {
			writeError(rw, err)
			return
		}

		writeResponse(rw, page, http.StatusOK)
	})(rw, r)
}

// orderedResource binds the page operations of one ordered collection
// (medicines, allergies or diagnoses) to its routes.
type orderedResource[T any, In any] struct {
	name     string
	idsField string
	list     func(*models.Page) ([]T, error)
	create   func(*models.Page, In) (*T, error)
	update   func(*models.Page, uint, In) (*T, error)
	remove   func(*models.Page, uint) error
	reorder  func(*models.Page, []uint) error
}

func registerOrderedRoutes[T any, In any](router *mux.Router, path string, resource orderedResource[T, In]) {
	if resource.name == "" {
		resource.name = "item"
	}

	// /reorder has to be registered ahead of /{id}
	router.HandleFunc(path+"/reorder", withPage(resource.reorderHandler)).Methods(http.MethodPut)
	router.HandleFunc(path, withPage(resource.listHandler)).Methods(http.MethodGet)
	router.HandleFunc(path, withPage(resource.createHandler)).Methods(http.MethodPost)
	router.HandleFunc(path+"/{id:[0-9]+}", withPage(resource.updateHandler)).Methods(http.MethodPut)
	router.HandleFunc(path+"/{id:[0-9]+}", withPage(resource.deleteHandler)).Methods(http.MethodDelete)
}

func (resource orderedResource[T, In]) listHandler(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	items, err := resource.list(page)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, items, http.StatusOK)
}

func (resource orderedResource[T, In]) createHandler(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	var input In
	if err := decodeBody(r, &input); err != nil {
		writeError(rw, err)
		return
	}

	item, err := resource.create(page, input)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, item, http.StatusCreated)
}

func (resource orderedResource[T, In]) updateHandler(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	id, err := pathID(r, resource.name)
	if err != nil {
		writeError(rw, err)
		return
	}

	var input In
	if err := decodeBody(r, &input); err != nil {
		writeError(rw, err)
		return
	}

	item, err := resource.update(page, id, input)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, item, http.StatusOK)
}

func (resource orderedResource[T, In]) deleteHandler(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	id, err := pathID(r, resource.name)
	if err != nil {
		writeError(rw, err)
		return
	}

	if err := resource.remove(page, id); err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, SuccessPayload{Success: true}, http.StatusOK)
}

func (resource orderedResource[T, In]) reorderHandler(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	body := map[string]json.RawMessage{}
	if err := decodeBody(r, &body); err != nil {
		writeError(rw, err)
		return
	}

	ids := []uint{}
	raw, ok := body[resource.idsField]
	if !ok || json.Unmarshal(raw, &ids) != nil || ids == nil {
		writeError(rw, &models.ValidationError{Message: resource.idsField + " must be an array of ids"})
		return
	}

	if err := resource.reorder(page, ids); err != nil {
		writeError(rw, err)
		return
	}

	items, err := resource.list(page)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, items, http.StatusOK)
}

func listEmergencyContacts(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	contacts, err := page.ListEmergencyContacts()
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, contacts, http.StatusOK)
}

func createEmergencyContact(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	input := models.EmergencyContactInput{}
	if err := decodeBody(r, &input); err != nil {
		writeError(rw, err)
		return
	}

	contact, err := page.AddEmergencyContact(input)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, contact, http.StatusCreated)
}

func updateEmergencyContact(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	id, err := pathID(r, "emergency contact")
	if err != nil {
		writeError(rw, err)
		return
	}

	input := models.EmergencyContactInput{}
	if err := decodeBody(r, &input); err != nil {
		writeError(rw, err)
		return
	}

	contact, err := page.UpdateEmergencyContact(id, input)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, contact, http.StatusOK)
}

func deleteEmergencyContact(rw http.ResponseWriter, r *http.Request, page *models.Page) {
	id, err := pathID(r, "emergency contact")
	if err != nil {
		writeError(rw, err)
		return
	}

	if err := page.DeleteEmergencyContact(id); err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, SuccessPayload{Success: true}, http.StatusOK)
}
