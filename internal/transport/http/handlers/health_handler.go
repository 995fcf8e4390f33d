package handlers

import (
	"io"
	"net/http"
	"time"

	httperrors "github.com/Anujpy12345/Scam-exposer-bot-render/internal/transport/http/errors"
)

const LivenessBody = "Bot is Running 24/7!"

type UserCounter interface {
	Count() int
}

type HealthHandler struct {
	users     UserCounter
	startedAt time.Time
	now       func() time.Time
}

type healthResponse struct {
	OK            bool  `json:"ok"`
	Users         int   `json:"users"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

func NewHealthHandler(users UserCounter, startedAt time.Time) *HealthHandler {
	return &HealthHandler{users: users, startedAt: startedAt, now: time.Now}
}

// Root answers hosting platform pings with a fixed plain-text body.
func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, LivenessBody)
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		OK:            true,
		UptimeSeconds: int64(h.now().Sub(h.startedAt).Seconds()),
	}
	if h.users != nil {
		resp.Users = h.users.Count()
	}
	httperrors.Write(w, http.StatusOK, resp)
}
