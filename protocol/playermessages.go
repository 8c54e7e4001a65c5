package protocol

// Player identifies a seat in a game
type Player struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
}

// InboundMessage is a move from a Player.
// For Attack, Decision holds hand indices.
// For Defend, Decision holds the table index then the hand index.
type InboundMessage struct {
	PlayerID string `json:"playerID"`
	Command  Cmd    `json:"command"`
	Decision []int  `json:"decision"`
}

// OutboundMessage is a message to a Player
type OutboundMessage struct {
	PlayerID string    `json:"playerID,omitempty"`
	Command  Cmd       `json:"command"`
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Action   string    `json:"action,omitempty"`
	GameOver bool      `json:"gameOver,omitempty"`
	IsDraw   bool      `json:"isDraw,omitempty"`
	Winner   string    `json:"winner,omitempty"`
	Loser    string    `json:"loser,omitempty"`
	Joiner   *Player   `json:"joiner,omitempty"`
	State    *GameView `json:"state,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Outcome is what the end-of-game evaluator reports
type Outcome struct {
	GameOver bool   `json:"gameOver"`
	IsDraw   bool   `json:"isDraw"`
	Winner   string `json:"winner,omitempty"`
	Loser    string `json:"loser,omitempty"`
}

// CardView is a card as shown to a viewer
type CardView struct {
	ID        string `json:"id"`
	Rank      string `json:"rank"`
	Suit      string `json:"suit"`
	ImageURL  string `json:"image_url"`
	HandIndex *int   `json:"hand_index,omitempty"`
}

// SlotView is one attack card and its optional defence
type SlotView struct {
	Attack     CardView  `json:"attack_card"`
	Defense    *CardView `json:"defense_card"`
	AttackerID string    `json:"attacker_id"`
	DefenderID string    `json:"defender_id,omitempty"`
}

// PlayerView is a player as shown to a viewer. Cards is only
// populated for the viewer themselves, or for everyone once the game is over.
type PlayerView struct {
	PlayerID  string     `json:"id"`
	Name      string     `json:"name"`
	CardCount int        `json:"card_count"`
	IsViewer  bool       `json:"is_viewer"`
	Cards     []CardView `json:"cards"`
}

// GameView is the per-viewer projection of a game
type GameView struct {
	Status       string       `json:"status"`
	AttackerID   string       `json:"attacker_id"`
	AttackerName string       `json:"attacker_name"`
	DefenderID   string       `json:"defender_id"`
	DefenderName string       `json:"defender_name"`
	TrumpSuit    string       `json:"trump_suit,omitempty"`
	TrumpCard    *CardView    `json:"trump_card_revealed,omitempty"`
	DeckCount    int          `json:"deck_count"`
	Table        []SlotView   `json:"table"`
	Players      []PlayerView `json:"players"`
	Outcome      *Outcome     `json:"outcome,omitempty"`
}
