package http

import (
	"log/slog"
	"net/http"
)

// ChannelHeader carries the chat channel a request originates from.
const ChannelHeader = "X-Channel-ID"

// ChannelGuard rejects requests whose channel is not channelID. An empty
// channelID allows every request.
func ChannelGuard(channelID string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if channelID != "" && r.Header.Get(ChannelHeader) != channelID {
				logger.Warn("request from unexpected channel", "channel_id", r.Header.Get(ChannelHeader), "path", r.URL.Path)
				writeJSON(w, http.StatusForbidden, errorResponse{
					Reason:  "channel_not_allowed",
					Message: "orders are not taken in this channel",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
