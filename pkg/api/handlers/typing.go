package handlers

import (
	"net/http"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterTyping registers the typing presence routes on the provided
// router. The same write path is additionally exposed on the lean signal
// listener for clients that fire on every keystroke.
func RegisterTyping(r *mux.Router, d Deps) {
	r.HandleFunc("/chats/{id}/typing", touchTyping(d)).Methods(http.MethodPost)
	r.HandleFunc("/chats/{id}/typing", getTyping(d)).Methods(http.MethodGet)
}

// touchTyping handles POST /chats/{id}/typing?user=<id>. Throttled writes:
// at most one store write per chat/user per interval, surplus signals are
// dropped silently. Always 204 — presence is best effort.
func touchTyping(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["id"]
		userID := r.URL.Query().Get("user")
		if userID == "" {
			utils.JSONError(w, http.StatusBadRequest, "user query parameter is required")
			return
		}
		_ = d.Typing.Touch(chatID, userID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// getTyping handles GET /chats/{id}/typing?user=<id> and reports whether
// the user's last signal is still within the staleness window.
func getTyping(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["id"]
		userID := r.URL.Query().Get("user")
		if userID == "" {
			utils.JSONError(w, http.StatusBadRequest, "user query parameter is required")
			return
		}
		typing, err := d.Typing.TypingNow(chatID, userID)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"typing": typing})
	}
}
