package domain

// UserStats is one row of the userstats table. The website creates and renders
// most of it; this service only touches the wagering and click fields.
type UserStats struct {
	UserId        string  `json:"userId"`
	Money         float64 `json:"money"`
	MoneyPerClick float64 `json:"moneyPerClick"`
	Tokens        float64 `json:"tokens"`
	GamesWon      int64   `json:"gamesWon"`
	GamesLost     int64   `json:"gamesLost"`
	TokensWon     float64 `json:"tokensWon"`
	TokensLost    float64 `json:"tokensLost"`
}
