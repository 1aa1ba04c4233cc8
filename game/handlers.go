package game

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type WSHandler struct {
	verifier       HandshakeVerifier
	hub            *Hub
	coordinator    *Coordinator
	ledger         Ledger
	clicks         *ClickLimiter
	allowedOrigins []string
}

func NewWSHandler(verifier HandshakeVerifier, hub *Hub, coordinator *Coordinator, ledger Ledger, clicks *ClickLimiter, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		verifier:       verifier,
		hub:            hub,
		coordinator:    coordinator,
		ledger:         ledger,
		clicks:         clicks,
		allowedOrigins: allowedOrigins,
	}
}

// ConnectHandler upgrades an authenticated client to a websocket session. The
// token travels in the `token` query parameter or as a bearer header.
func (h *WSHandler) ConnectHandler(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		token = strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	}

	player, err := h.verifier.Verify(token)
	if err != nil {
		log.Debug().Str("ip", ctx.ClientIP()).Err(err).Msg("handshake rejected")
		ctx.String(http.StatusUnauthorized, "invalid token")
		ctx.Abort()
		return
	}

	// First connection of a fresh account gets a default stats row.
	if err := h.ledger.EnsureStats(ctx.Request.Context(), player.Id); err != nil {
		log.Error().Str("userId", player.Id).Err(err).Msg("ensure stats failed")
		ctx.Status(http.StatusInternalServerError)
		ctx.Abort()
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(h.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade failed")
		return
	}

	session := NewWebsocketSession(conn)
	client := NewClient(player, ctx.ClientIP(), session, h.hub, h.coordinator, h.ledger, h.clicks)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
