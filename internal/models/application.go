package models

import "time"

const (
	ApplicationTypeWhitelist = "whitelist"
	ApplicationTypeStaff     = "staff"
	ApplicationTypePoliti    = "politi"
	ApplicationTypeFirma     = "firma"
	ApplicationTypeBande     = "bande"

	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// applicationSchemas объявляет обязательные анкетные поля для каждого типа заявки.
// Ответы хранятся в Application.Fields как свободный текст.
var applicationSchemas = map[string][]string{
	ApplicationTypeWhitelist: {"alder", "rp_navn", "erfaring", "baggrund"},
	ApplicationTypeStaff:     {"alder", "erfaring", "motivation"},
	ApplicationTypePoliti:    {"rp_navn", "erfaring", "motivation"},
	ApplicationTypeFirma:     {"firma_navn", "koncept", "ejere"},
	ApplicationTypeBande:     {"bande_navn", "koncept", "medlemmer"},
}

// ValidApplicationType сообщает, известен ли такой тип заявки.
func ValidApplicationType(t string) bool {
	_, ok := applicationSchemas[t]
	return ok
}

// ApplicationSchema возвращает обязательные поля анкеты для типа.
func ApplicationSchema(t string) []string {
	return applicationSchemas[t]
}

// Application — заявка на вступление/роль. Статус меняется только один раз:
// pending -> accepted или pending -> rejected, решение принимает администратор.
type Application struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	UserName          string            `json:"user_name"`
	Type              string            `json:"type"`
	Status            string            `json:"status"`
	SubmittedAt       time.Time         `json:"submitted_at"`
	ReviewedAt        *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy        *string           `json:"reviewed_by,omitempty"`
	ReviewNote        *string           `json:"review_note,omitempty"`
	RequiresInterview *bool             `json:"requires_interview,omitempty"`
	Fields            map[string]string `json:"fields,omitempty"`
}
