package api

import (
	"encoding/json"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/api/handlers"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"

	"github.com/valyala/fasthttp"
)

// Typing signals arrive on every keystroke, so the write path gets its own
// lean listener instead of the full middleware chain. The handler is
// deliberately thin: parse, touch, 204. The presence tracker's own
// throttle bounds store writes regardless of signal rate.

// SignalHandler returns the fasthttp handler for the typing-signal
// listener.
func SignalHandler(d handlers.Deps) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/signal/typing" || !ctx.IsPost() {
			signalError(ctx, fasthttp.StatusNotFound, "not found")
			return
		}
		chatID := string(ctx.QueryArgs().Peek("chat"))
		userID := string(ctx.QueryArgs().Peek("user"))
		if chatID == "" || userID == "" {
			signalError(ctx, fasthttp.StatusBadRequest, "chat and user query parameters are required")
			return
		}
		_ = d.Typing.Touch(chatID, userID)
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}

// ServeSignals blocks serving the typing-signal listener on addr.
func ServeSignals(addr string, d handlers.Deps) error {
	logger.Info("signal_listener_start", "addr", addr)
	return fasthttp.ListenAndServe(addr, SignalHandler(d))
}

func signalError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.SetStatusCode(status)
	_ = json.NewEncoder(ctx).Encode(map[string]string{"error": message})
}
