package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

const handleTimeout = 5 * time.Second

// Client is one authenticated websocket connection. The read pump dispatches
// inbound events to the coordinator; the write pump drains the send queue.
type Client struct {
	player PlayerRef
	addr   string

	session     NetworkSession
	send        chan []byte
	hub         *Hub
	coordinator *Coordinator
	ledger      Ledger
	clicks      *ClickLimiter
}

func NewClient(player PlayerRef, addr string, session NetworkSession, hub *Hub, coordinator *Coordinator, ledger Ledger, clicks *ClickLimiter) *Client {
	return &Client{
		player:      player,
		addr:        addr,
		session:     session,
		send:        make(chan []byte, 256),
		hub:         hub,
		coordinator: coordinator,
		ledger:      ledger,
		clicks:      clicks,
	}
}

// Reply queues one event for this client only.
func (c *Client) Reply(event string, data any) {
	msg, err := MarshalEvent(event, data)
	if err != nil {
		log.Error().Str("event", event).Err(err).Msg("reply marshal failed")
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.session.Close("")
	}()

	for {
		data, err := c.session.Read()
		if err != nil {
			break
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		c.dispatch(ctx, envelope)
		cancel()
	}
}

func (c *Client) WritePump() {
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.session.Write(msg); err != nil {
				return
			}
		case <-pingTicker.C:
			if err := c.session.Ping(); err != nil {
				return
			}
		}
	}
}

// dispatch routes one inbound event. Declined wagering actions produce no
// reply at all; only the click limiter talks back on failure.
func (c *Client) dispatch(ctx context.Context, envelope Envelope) {
	switch envelope.Event {
	case EventClick:
		c.handleClick(ctx)

	case EventGames:
		c.Reply(EventGames, c.coordinator.ListGames())

	case EventCreateGame:
		c.handleCreateGame(ctx, envelope.Data)

	case EventDeleteGame:
		var payload deleteGamePayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return
		}
		c.coordinator.CancelGame(ctx, payload.Id, c.player.Id)

	case EventJoinGame:
		var payload joinGamePayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return
		}
		if payload.IsBot {
			c.coordinator.JoinCoinflipBot(ctx, payload.Id)
			return
		}
		c.coordinator.JoinCoinflip(ctx, payload.Id, c.player)

	case EventUserStats:
		var payload userStatsPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return
		}
		stats, err := c.ledger.FindStats(ctx, payload.Id)
		if err != nil {
			return
		}
		c.Reply(EventUserStats, stats)

	default:
		log.Debug().Str("event", envelope.Event).Msg("unknown inbound event")
	}
}

func (c *Client) handleClick(ctx context.Context) {
	retryAfter, ok := c.clicks.Allow(c.addr)
	if !ok {
		c.Reply(EventBlocked, blockedPayload{RetryAfterMs: retryAfter.Milliseconds()})
		return
	}

	stats, err := c.ledger.FindStats(ctx, c.player.Id)
	if err != nil {
		log.Error().Str("userId", c.player.Id).Err(err).Msg("click stats lookup failed")
		return
	}
	updated, err := c.ledger.Increment(ctx, c.player.Id, FieldMoney, stats.MoneyPerClick)
	if err != nil {
		log.Error().Str("userId", c.player.Id).Err(err).Msg("click increment failed")
		return
	}
	c.Reply(EventClick, updated)
}

func (c *Client) handleCreateGame(ctx context.Context, raw json.RawMessage) {
	var payload createGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}

	// A bare bet is a coinflip, a cases list is a case battle.
	if payload.Bet != nil {
		c.coordinator.CreateCoinflip(ctx, c.player, *payload.Bet)
		return
	}
	if len(payload.Cases) > 0 {
		battle := c.coordinator.CreateCaseBattle(payload.CaseBattleConfig, c.player)
		c.Reply(EventGameCreated, gameCreatedPayload{Id: battle.Id})
	}
}
