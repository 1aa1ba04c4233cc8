package game

import "encoding/json"

// Inbound and outbound event names. The protocol is JSON envelopes over the
// websocket, one event per message.
const (
	EventClick       = "click"
	EventBlocked     = "blocked"
	EventGames       = "games"
	EventCreateGame  = "createGame"
	EventNewGame     = "newGame"
	EventGameCreated = "gameCreated"
	EventDeleteGame  = "deleteGame"
	EventJoinGame    = "joinGame"
	EventJoinedGame  = "joinedGame"
	EventUserStats   = "userstats"
	EventUserCount   = "usercount"
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type OutEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

func MarshalEvent(event string, data any) ([]byte, error) {
	return json.Marshal(OutEnvelope{Event: event, Data: data})
}

// createGamePayload covers both modes: a bare bet means coinflip, a cases list
// means case battle.
type createGamePayload struct {
	Bet *float64 `json:"bet"`
	CaseBattleConfig
}

type deleteGamePayload struct {
	Id     string `json:"id"`
	UserId string `json:"userId"`
}

type joinGamePayload struct {
	Id    string `json:"id"`
	IsBot bool   `json:"isBot"`
}

type userStatsPayload struct {
	Id string `json:"id"`
}

type blockedPayload struct {
	RetryAfterMs int64 `json:"retryAfterMs"`
}

type gameCreatedPayload struct {
	Id string `json:"id"`
}
