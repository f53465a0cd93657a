package models

import "time"

// UserNote — заметка администратора о пользователе. Заметки никогда
// не редактируются и не удаляются.
type UserNote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}
