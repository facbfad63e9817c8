package websocket

import (
	"encoding/json"
	"fmt"
)

const (
	TypeLeaderboardSnapshot = "leaderboard.snapshot"
	TypeAchievementUnlocked = "achievement.unlocked"
	TypeEquationsExtracted  = "equations.extracted"
	TypeAchievementDismiss  = "achievement.dismiss" // client -> server
)

// Envelope is the frame format in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func encode(msgType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return json.Marshal(Envelope{Type: msgType, Data: raw})
}
