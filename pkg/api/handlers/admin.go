package handlers

import (
	"net/http"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterAdmin registers admin-only routes onto the admin subrouter. The
// security middleware has already restricted these paths to admin keys.
func RegisterAdmin(r *mux.Router, d Deps) {
	r.HandleFunc("/health", adminHealth).Methods(http.MethodGet)
	r.HandleFunc("/stats", adminStats(d)).Methods(http.MethodGet)
	r.HandleFunc("/flags", adminFlags(d)).Methods(http.MethodGet)
	r.HandleFunc("/bans", adminListBans(d)).Methods(http.MethodGet)
	r.HandleFunc("/bans/{id}", adminBan(d)).Methods(http.MethodPost)
	r.HandleFunc("/bans/{id}", adminUnban(d)).Methods(http.MethodDelete)
	logger.Info("admin_routes_registered")
}

func isAdmin(r *http.Request) bool {
	return r.Header.Get("X-Role-Name") == "admin"
}

func adminHealth(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.JSONError(w, http.StatusForbidden, "forbidden")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok","service":"housegram"}`))
}

// adminStats reports chat/message counts from the store plus the advisory
// blob usage counters.
func adminStats(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			utils.JSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		chats, _ := store.ListChats()
		var msgCount int64
		for _, c := range chats {
			msgs, err := store.ListMessages(c.ID)
			if err != nil {
				continue
			}
			msgCount += int64(len(msgs))
		}
		usage := d.Usage.Usage()
		out := struct {
			Chats      int   `json:"chats"`
			Messages   int64 `json:"messages"`
			MediaBytes int64 `json:"mediaBytes"`
			FileBytes  int64 `json:"fileBytes"`
			VoiceBytes int64 `json:"voiceBytes"`
			TotalBytes int64 `json:"totalBytes"`
		}{
			Chats:      len(chats),
			Messages:   msgCount,
			MediaBytes: usage.MediaBytes,
			FileBytes:  usage.FileBytes,
			VoiceBytes: usage.VoiceBytes,
			TotalBytes: usage.TotalBytes,
		}
		_ = utils.JSONWrite(w, http.StatusOK, out)
	}
}

func adminFlags(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			utils.JSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, d.Flags)
	}
}

func adminListBans(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			utils.JSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			Banned []string `json:"banned"`
		}{Banned: d.Bans.List()})
	}
}

func adminBan(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			utils.JSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		id := mux.Vars(r)["id"]
		d.Bans.Ban(id)
		logger.Warn("user_banned", "user", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func adminUnban(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			utils.JSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		id := mux.Vars(r)["id"]
		d.Bans.Unban(id)
		logger.Info("user_unbanned", "user", id)
		w.WriteHeader(http.StatusNoContent)
	}
}
