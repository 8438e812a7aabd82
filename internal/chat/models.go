package chat

import "time"

// ChatTurn is one persisted message/response exchange. ID grows with insertion
// order and doubles as the turn's timestamp in the history API.
type ChatTurn struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string    `gorm:"type:varchar(191);index;not null" json:"user_id"`
	Message        string    `gorm:"type:text" json:"message"`
	Response       string    `gorm:"type:text" json:"response"`
	UserConditions string    `gorm:"type:text" json:"user_conditions"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ChatTurn) TableName() string { return "chat_history" }

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// HistoryEntry is one side of a turn as returned by the history endpoint.
type HistoryEntry struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp uint64 `json:"timestamp"`
}
