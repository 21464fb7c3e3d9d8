package handlers

import (
	"github.com/HouseGram-code/HouseGram-sub000/internal/news"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/banlist"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/blob"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/compose"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/live"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/presence"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/stats"
)

// Deps carries the service singletons the handlers operate on. Everything
// is passed explicitly; handlers hold no package state of their own beyond
// the voice-session registry.
type Deps struct {
	Hub      *live.Hub
	Chats    *live.ChatList
	Feed     *live.MessageFeed
	News     *news.Service
	Composer *compose.Composer
	Typing   *presence.Tracker
	Blobs    *blob.Store
	Usage    *stats.Store
	Bans     *banlist.Store

	// MaxUploadBytes caps multipart bodies; 0 means no cap.
	MaxUploadBytes int64

	// Flags is the runtime feature summary reported on the admin console.
	Flags Flags
}

// Flags describes which optional subsystems are active in this process.
type Flags struct {
	SchedulerEnabled bool   `json:"schedulerEnabled"`
	SchedulerCron    string `json:"schedulerCron,omitempty"`
	SignalListener   bool   `json:"signalListener"`
	TLS              bool   `json:"tls"`
}
