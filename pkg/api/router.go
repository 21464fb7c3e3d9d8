package api

import (
	"net/http"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/api/handlers"

	"github.com/gorilla/mux"
)

// Handler assembles the versioned JSON API. Health, metrics, docs and the
// blob file server are mounted by the caller alongside this handler.
func Handler(d handlers.Deps) http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()

	handlers.RegisterUsers(v1)
	handlers.RegisterChats(v1, d)
	handlers.RegisterMessages(v1, d)
	handlers.RegisterUploads(v1, d)
	handlers.RegisterTyping(v1, d)

	admin := v1.PathPrefix("/admin").Subrouter()
	handlers.RegisterAdmin(admin, d)

	return r
}
