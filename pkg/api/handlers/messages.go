package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/validation"

	"github.com/gorilla/mux"
)

// RegisterMessages registers the message feed and send routes on the
// provided router.
func RegisterMessages(r *mux.Router, d Deps) {
	r.HandleFunc("/chats/{id}/messages", listChatMessages(d)).Methods(http.MethodGet)
	r.HandleFunc("/chats/{id}/messages", sendMessage(d)).Methods(http.MethodPost)
	r.HandleFunc("/chats/{id}/stream", streamChatMessages(d)).Methods(http.MethodGet)
}

// listChatMessages handles GET /chats/{id}/messages. Messages come back
// ascending by raw timestamp; an optional limit keeps only the newest n.
func listChatMessages(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["id"]
		msgs, err := d.Feed.Snapshot(chatID)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if limStr := r.URL.Query().Get("limit"); limStr != "" {
			if lim, err := strconv.Atoi(limStr); err == nil && lim >= 0 && lim < len(msgs) {
				msgs = msgs[len(msgs)-lim:]
			}
		}
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			ChatID   string           `json:"chatId"`
			Messages []models.Message `json:"messages"`
		}{ChatID: chatID, Messages: msgs})
	}
}

// streamChatMessages handles GET /chats/{id}/stream as an SSE stream of
// full feed snapshots. Every wakeup replaces the whole list; clients never
// merge deltas.
func streamChatMessages(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["id"]
		fl, ok := sseSetup(w)
		if !ok {
			utils.JSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		for msgs := range d.Feed.Watch(r.Context(), chatID) {
			if err := sseEvent(w, fl, "messages", struct {
				ChatID   string           `json:"chatId"`
				Messages []models.Message `json:"messages"`
			}{ChatID: chatID, Messages: msgs}); err != nil {
				logger.Debug("sse_write_failed", "stream", "messages", "chat", chatID, "error", err)
				return
			}
		}
	}
}

// sendMessage handles POST /chats/{id}/messages. A body carrying a future
// sendAt becomes a deferred send: the message is persisted under the
// schedule namespace and answered with 202 until the sweeper delivers it.
func sendMessage(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["id"]
		var in struct {
			SenderID string `json:"senderId"`
			Text     string `json:"text"`
			// SendAt is epoch ms; zero means send now.
			SendAt int64 `json:"sendAt,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validation.ValidateSend(chatID, in.SenderID, in.Text); err != nil {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		if in.SendAt > time.Now().UTC().UnixMilli() {
			key, err := d.Composer.ScheduleText(r.Context(), chatID, in.SenderID, in.Text, time.UnixMilli(in.SendAt))
			if err != nil {
				utils.JSONError(w, sendStatus(err), err.Error())
				return
			}
			_ = utils.JSONWrite(w, http.StatusAccepted, map[string]interface{}{
				"scheduled": key,
				"sendAt":    in.SendAt,
			})
			return
		}

		m, err := d.Composer.SendText(r.Context(), chatID, in.SenderID, in.Text)
		if err != nil {
			utils.JSONError(w, sendStatus(err), err.Error())
			return
		}
		_ = utils.JSONWrite(w, http.StatusCreated, m)
	}
}

// sendStatus maps composer failures onto HTTP codes: caller mistakes are
// 4xx, store trouble is 500.
func sendStatus(err error) int {
	msg := err.Error()
	switch {
	case store.IsNotFound(err) || strings.Contains(msg, "chat not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "read-only"):
		return http.StatusForbidden
	case strings.Contains(msg, "empty"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
