package models

import "time"

// Теги действий в журнале аудита.
const (
	ActionTrustScoreAdjusted  = "trust_score_adjusted"
	ActionTrustScoreSet       = "trust_score_set"
	ActionWarningAdded        = "warning_added"
	ActionWarningRemoved      = "warning_removed"
	ActionApplicationAccepted = "application_accepted"
	ActionApplicationRejected = "application_rejected"
	ActionUserBanned          = "user_banned"
	ActionUserUnbanned        = "user_unbanned"
	ActionNoteAdded           = "note_added"
)

// LogRetention — сколько последних записей журнала хранится в файле.
const LogRetention = 10000

// LogEntry — запись журнала аудита. Журнал append-only, при переполнении
// отбрасываются самые старые записи.
type LogEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
