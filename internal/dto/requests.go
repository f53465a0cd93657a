package dto

import "encoding/json"

// ExchangeCodeRequest — обмен OAuth-кода на токен сессии.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// TrustActionRequest — админская операция над trust-данными. Поле value
// полиморфно: число для adjustScore/setScore, объект для addWarning и
// removeWarning, поэтому разбирается вторым проходом.
type TrustActionRequest struct {
	UserID string          `json:"userId" binding:"required"`
	Action string          `json:"action" binding:"required"`
	Value  json.RawMessage `json:"value"`
}

// AddWarningValue — value для action=addWarning.
type AddWarningValue struct {
	Reason   string  `json:"reason"`
	Note     *string `json:"note"`
	Severity string  `json:"severity"`
}

// RemoveWarningValue — value для action=removeWarning.
type RemoveWarningValue struct {
	WarningID string `json:"warningId"`
	Reason    string `json:"reason"`
}

// SubmitApplicationRequest — подача заявки. ID опционален: клиент может
// прислать свой идентификатор, иначе сервер сгенерирует time-based id.
type SubmitApplicationRequest struct {
	ID     string            `json:"id"`
	Type   string            `json:"type" binding:"required"`
	Fields map[string]string `json:"fields"`
}

// ReviewApplicationRequest — решение администратора по заявке.
type ReviewApplicationRequest struct {
	ID                string  `json:"id" binding:"required"`
	Status            string  `json:"status" binding:"required"`
	ReviewNote        *string `json:"reviewNote"`
	RequiresInterview *bool   `json:"requiresInterview"`
}

// BanRequest — бан пользователя.
type BanRequest struct {
	UserID string `json:"userId" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// UnbanRequest — разбан пользователя.
type UnbanRequest struct {
	UserID           string `json:"userId" binding:"required"`
	Reason           string `json:"reason" binding:"required"`
	RestoreWhitelist bool   `json:"restoreWhitelist"`
}

// CreateNoteRequest — заметка администратора о пользователе.
// Image — опциональный base64 PNG (допускается data:-префикс).
type CreateNoteRequest struct {
	UserID  string  `json:"userId" binding:"required"`
	Content string  `json:"content" binding:"required"`
	Image   *string `json:"image"`
}

// CreateLogRequest — запись журнала от клиента. userId и userName
// опциональны: по умолчанию берутся из сессии.
type CreateLogRequest struct {
	Action   string `json:"action" binding:"required"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Details  string `json:"details"`
}
