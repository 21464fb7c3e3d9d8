package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/validation"

	"github.com/gorilla/mux"
)

// RegisterUsers registers the user profile routes on the provided router.
func RegisterUsers(r *mux.Router) {
	r.HandleFunc("/users", createUser).Methods(http.MethodPost)
	r.HandleFunc("/users", listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", getUser).Methods(http.MethodGet)
}

// createUser handles POST /users. The body is a JSON user profile; the id
// is generated when absent. Re-posting an existing id overwrites the
// profile document.
func createUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateUser(u); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if u.ID == "" {
		u.ID = "user_" + utils.GenID()
	}
	if u.CreatedAt == 0 {
		u.CreatedAt = time.Now().UTC().UnixMilli()
	}
	if err := store.SaveUser(u); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, u)
}

func getUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u, err := store.GetUser(id)
	if err != nil {
		if store.IsNotFound(err) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, u)
}

func listUsers(w http.ResponseWriter, r *http.Request) {
	us, err := store.ListUsers()
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Users []models.User `json:"users"`
	}{Users: us})
}
