package main

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/HermesDE/caseclickerWS/config"
	"github.com/HermesDE/caseclickerWS/crypto"
	"github.com/HermesDE/caseclickerWS/game"
	"github.com/HermesDE/caseclickerWS/logger"
	"github.com/HermesDE/caseclickerWS/migrations"
	"github.com/HermesDE/caseclickerWS/storage"
)

// handshakeVerifier adapts the JWT manager to the game handshake boundary.
type handshakeVerifier struct {
	manager *crypto.JWTManager
}

func (v handshakeVerifier) Verify(token string) (game.PlayerRef, error) {
	identity, err := v.manager.Verify(token)
	if err != nil {
		return game.PlayerRef{}, err
	}
	return game.PlayerRef{Id: identity.UserId, Name: identity.Name, Image: identity.Image}, nil
}

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	config.Load()
	logger.Setup(config.Envs.GIN_MODE != "release")

	if config.Envs.ALLOWED_ORIGINS == "" {
		log.Fatal().Msg("missing allowed origins")
	}
	allowedOrigins := strings.Split(config.Envs.ALLOWED_ORIGINS, ",")

	if config.Envs.POSTGRES_URL == "" {
		log.Fatal().Msg("missing postgres url")
	}
	if config.Envs.NEXTAUTH_SECRET == "" {
		log.Fatal().Msg("missing nextauth secret")
	}

	if err := migrations.Migrate(config.Envs.POSTGRES_URL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	ledger, err := storage.NewPostgresLedger(context.Background(), config.Envs.POSTGRES_URL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer ledger.Close()

	tokenAge := time.Hour * 24 * 30 // NextAuth session tokens default to 30 days
	tokenManager := crypto.NewJWTManager(config.Envs.NEXTAUTH_SECRET, tokenAge)

	hub := game.NewHub()
	hubStarted := make(chan struct{})
	go hub.Run(hubStarted)
	<-hubStarted

	registry := game.NewRegistry()
	flipper := game.NewCoinFlipper()
	bots := game.NewRandomBotNamer(time.Now().UnixNano())
	coordinator := game.NewCoordinator(registry, ledger, hub, flipper, bots)

	clicks := game.NewClickLimiter()
	wsHandler := game.NewWSHandler(handshakeVerifier{tokenManager}, hub, coordinator, ledger, clicks, allowedOrigins)

	r := CreateServer(allowedOrigins)
	r.GET("/ws", wsHandler.ConnectHandler)

	log.Info().Str("port", config.Envs.PORT).Msg("websocket server listening")
	if err := r.Run(":" + config.Envs.PORT); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
