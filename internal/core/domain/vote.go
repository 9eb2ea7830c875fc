package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one user's menu choice for one date. A later vote by the same
// user on the same date replaces every field except ID.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Menu      Menu      `json:"menu"`
	OrderedAt time.Time `json:"ordered_at"`
}
