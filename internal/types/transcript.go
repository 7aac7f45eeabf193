// Package types holds records shared across packages.
package types

import "time"

// Transcript is one chat exchange between the user and the pet.
type Transcript struct {
	ID        int       `json:"id"`
	SessionID string    `json:"session_id"`
	UserText  string    `json:"user_text"`
	RawReply  string    `json:"raw_reply"`
	Reply     string    `json:"reply"`
	Delta     int       `json:"delta"`
	Matched   bool      `json:"matched"`
	MoodScore int       `json:"mood_score"`
	PetMode   bool      `json:"pet_mode"`
	CreatedAt time.Time `json:"created_at"`
}
