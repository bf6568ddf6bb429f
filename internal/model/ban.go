package model

import "time"

// BanRecord is a time-bounded or permanent restriction on a nickname
// reconnecting. A nil Until means the ban never expires.
type BanRecord struct {
	Nickname  Nickname   `json:"nickname"`
	Until     *time.Time `json:"until,omitempty"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}

// ActiveAt reports whether the ban is still in force at the given time
func (b *BanRecord) ActiveAt(now time.Time) bool {
	return b.Until == nil || now.Before(*b.Until)
}
