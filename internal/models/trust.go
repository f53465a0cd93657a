package models

import "time"

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"

	TrustScoreMin     = 0
	TrustScoreMax     = 100
	TrustScoreInitial = 100
)

// severityPenalties задаёт цену предупреждения в очках trust score.
var severityPenalties = map[string]int{
	SeverityLow:    5,
	SeverityMedium: 10,
	SeverityHigh:   20,
}

// ValidSeverity сообщает, известна ли такая серьёзность.
func ValidSeverity(severity string) bool {
	_, ok := severityPenalties[severity]
	return ok
}

// SeverityPenalty возвращает списание очков для серьёзности.
// Неизвестная серьёзность трактуется как low.
func SeverityPenalty(severity string) int {
	if p, ok := severityPenalties[severity]; ok {
		return p
	}
	return severityPenalties[SeverityLow]
}

// ClampScore приводит значение к допустимому диапазону [0, 100].
func ClampScore(v int) int {
	if v < TrustScoreMin {
		return TrustScoreMin
	}
	if v > TrustScoreMax {
		return TrustScoreMax
	}
	return v
}

// Warning — зафиксированное нарушение. Никогда не удаляется:
// снятие оформляется заполнением полей Removed*.
type Warning struct {
	ID            string     `json:"id"`
	Reason        string     `json:"reason"`
	Note          *string    `json:"note,omitempty"`
	Severity      string     `json:"severity"`
	IssuedAt      time.Time  `json:"issuedAt"`
	IssuedBy      string     `json:"issuedBy"`
	RemovedAt     *time.Time `json:"removedAt,omitempty"`
	RemovedBy     *string    `json:"removedBy,omitempty"`
	RemovalReason *string    `json:"removalReason,omitempty"`
}

// Removed сообщает, снято ли предупреждение.
func (w *Warning) Removed() bool {
	return w.RemovedAt != nil
}

// TrustRecord — репутация пользователя: очки и история предупреждений.
type TrustRecord struct {
	TrustScore int       `json:"trustScore"`
	Warnings   []Warning `json:"warnings"`
}

// NewTrustRecord возвращает запись для впервые встреченного пользователя.
func NewTrustRecord() TrustRecord {
	return TrustRecord{
		TrustScore: TrustScoreInitial,
		Warnings:   []Warning{},
	}
}

// ActiveWarnings возвращает неснятые предупреждения.
func (r *TrustRecord) ActiveWarnings() []Warning {
	active := make([]Warning, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		if !w.Removed() {
			active = append(active, w)
		}
	}
	return active
}
