package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/live"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"

	"github.com/gorilla/mux"
)

// RegisterChats registers the chat list, chat resource and news-channel
// routes on the provided router.
func RegisterChats(r *mux.Router, d Deps) {
	r.HandleFunc("/users/{id}/chats", listUserChats(d)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/chats/stream", streamUserChats(d)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/news/open", openNews(d)).Methods(http.MethodPost)

	r.HandleFunc("/chats", createChat(d)).Methods(http.MethodPost)
	r.HandleFunc("/chats/{id}", getChat).Methods(http.MethodGet)
}

// listUserChats handles GET /users/{id}/chats. The response is the same
// snapshot a stream subscriber would receive: deduped, sorted by updatedAt
// descending, with the news placeholder injected when no channel exists.
func listUserChats(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["id"]
		chats, err := d.Chats.Snapshot(userID)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			Chats []models.Chat `json:"chats"`
		}{Chats: chats})
	}
}

// streamUserChats handles GET /users/{id}/chats/stream as an SSE stream of
// full chat-list snapshots. The subscription is torn down when the client
// disconnects; the request context is the single teardown signal.
func streamUserChats(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["id"]
		fl, ok := sseSetup(w)
		if !ok {
			utils.JSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		for chats := range d.Chats.Watch(r.Context(), userID) {
			if err := sseEvent(w, fl, "chats", struct {
				Chats []models.Chat `json:"chats"`
			}{Chats: chats}); err != nil {
				logger.Debug("sse_write_failed", "stream", "chats", "user", userID, "error", err)
				return
			}
		}
	}
}

// openNews handles POST /users/{id}/news/open: materializes the broadcast
// channel for the user on first open and appends any update batches the
// stored version is behind on.
func openNews(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["id"]
		chat, err := d.News.Open(userID)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, chat)
	}
}

// createChat handles POST /chats. A private chat is keyed by its
// participant pair: posting the same pair again returns the existing chat
// instead of creating a duplicate.
func createChat(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Participants []string `json:"participants"`
			Title        string   `json:"title,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if len(in.Participants) != 2 || in.Participants[0] == "" || in.Participants[1] == "" {
			utils.JSONError(w, http.StatusBadRequest, "exactly two participant ids required")
			return
		}
		if in.Participants[0] == in.Participants[1] {
			utils.JSONError(w, http.StatusBadRequest, "participants must differ")
			return
		}

		if existing, ok, err := findPrivateChat(in.Participants[0], in.Participants[1]); err != nil {
			utils.JSONError(w, http.StatusInternalServerError, err.Error())
			return
		} else if ok {
			_ = utils.JSONWrite(w, http.StatusOK, existing)
			return
		}

		now := time.Now().UTC().UnixMilli()
		c := models.Chat{
			ID:           utils.GenChatID(),
			Participants: in.Participants,
			Users:        profileSnapshot(in.Participants),
			Type:         models.ChatTypePrivate,
			Title:        in.Title,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.SaveChat(c); err != nil {
			utils.JSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		d.Hub.Publish(live.TopicChats)
		logger.Info("chat_created", "chat", c.ID)
		_ = utils.JSONWrite(w, http.StatusCreated, c)
	}
}

func getChat(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := store.GetChat(id)
	if err != nil {
		if store.IsNotFound(err) {
			utils.JSONError(w, http.StatusNotFound, "chat not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, c)
}

// findPrivateChat scans for an existing private chat whose participant
// pair matches {a, b} in either order.
func findPrivateChat(a, b string) (models.Chat, bool, error) {
	chats, err := store.ListChats()
	if err != nil {
		return models.Chat{}, false, fmt.Errorf("list chats: %w", err)
	}
	for _, c := range chats {
		if c.Type != models.ChatTypePrivate {
			continue
		}
		if c.HasParticipant(a) && c.HasParticipant(b) {
			return c, true, nil
		}
	}
	return models.Chat{}, false, nil
}

// profileSnapshot resolves the stored profiles for the participant ids.
// Missing profiles are skipped; the chat still references them by id.
func profileSnapshot(ids []string) []models.User {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := store.GetUser(id)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out
}
