package handlers

import (
	"io"
	"net/http"
	"sync"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/compose"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/validation"

	"github.com/gorilla/mux"
)

// recordings tracks open voice sessions by id. Sessions live in memory
// only; a restart drops them, matching the draft-is-local contract.
type recordings struct {
	mu sync.Mutex
	m  map[string]*compose.Recording
}

func (rs *recordings) put(id string, r *compose.Recording) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.m == nil {
		rs.m = make(map[string]*compose.Recording)
	}
	rs.m[id] = r
}

func (rs *recordings) take(id string) (*compose.Recording, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r, ok := rs.m[id]
	if ok {
		delete(rs.m, id)
	}
	return r, ok
}

func (rs *recordings) get(id string) (*compose.Recording, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r, ok := rs.m[id]
	return r, ok
}

var voiceSessions recordings

// RegisterUploads registers the media upload and voice recording routes on
// the provided router.
func RegisterUploads(r *mux.Router, d Deps) {
	r.HandleFunc("/chats/{id}/media", uploadMedia(d)).Methods(http.MethodPost)

	r.HandleFunc("/chats/{id}/voice", startVoice(d)).Methods(http.MethodPost)
	r.HandleFunc("/voice/{rid}/chunk", appendVoice).Methods(http.MethodPost)
	r.HandleFunc("/voice/{rid}/finish", finishVoice(d)).Methods(http.MethodPost)
	r.HandleFunc("/voice/{rid}/cancel", cancelVoice).Methods(http.MethodPost)
}

// uploadMedia handles POST /chats/{id}/media as a multipart form with a
// "file" part plus senderId and kind fields. Images are normalized before
// the blob is written; other kinds pass through unchanged.
func uploadMedia(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["id"]
		if d.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, d.MaxUploadBytes)
		}
		if err := r.ParseMultipartForm(4 << 20); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		senderID := r.FormValue("senderId")
		kind := r.FormValue("kind")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "file part missing")
			return
		}
		defer f.Close()
		if err := validation.ValidateUpload(chatID, senderID, kind, hdr.Filename); err != nil {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		data, err := io.ReadAll(f)
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "read failed")
			return
		}
		m, err := d.Composer.SendMedia(r.Context(), chatID, senderID, kind, hdr.Filename, data)
		if err != nil {
			utils.JSONError(w, sendStatus(err), err.Error())
			return
		}
		_ = utils.JSONWrite(w, http.StatusCreated, m)
	}
}

// startVoice handles POST /chats/{id}/voice?sender=<id> and opens a
// recording session. The wall clock starts now: the reported duration
// covers the whole session, not just the captured audio.
func startVoice(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["id"]
		senderID := r.URL.Query().Get("sender")
		if senderID == "" {
			utils.JSONError(w, http.StatusBadRequest, "sender query parameter is required")
			return
		}
		rec := d.Composer.StartRecording(chatID, senderID)
		rid := "rec_" + utils.GenID()
		voiceSessions.put(rid, rec)
		_ = utils.JSONWrite(w, http.StatusCreated, map[string]string{"recording": rid})
	}
}

// appendVoice handles POST /voice/{rid}/chunk with raw audio bytes.
func appendVoice(w http.ResponseWriter, r *http.Request) {
	rid := mux.Vars(r)["rid"]
	rec, ok := voiceSessions.get(rid)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, "recording not found")
		return
	}
	n, err := io.Copy(rec, r.Body)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]int64{"received": n})
}

// finishVoice handles POST /voice/{rid}/finish: uploads the accumulated
// blob and persists the voice message.
func finishVoice(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := mux.Vars(r)["rid"]
		rec, ok := voiceSessions.take(rid)
		if !ok {
			utils.JSONError(w, http.StatusNotFound, "recording not found")
			return
		}
		m, err := d.Composer.FinishRecording(r.Context(), rec)
		if err != nil {
			utils.JSONError(w, sendStatus(err), err.Error())
			return
		}
		_ = utils.JSONWrite(w, http.StatusCreated, m)
	}
}

// cancelVoice handles POST /voice/{rid}/cancel: the blob is discarded and
// nothing is written.
func cancelVoice(w http.ResponseWriter, r *http.Request) {
	rid := mux.Vars(r)["rid"]
	rec, ok := voiceSessions.take(rid)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, "recording not found")
		return
	}
	rec.Cancel()
	w.WriteHeader(http.StatusNoContent)
}
