package dto

// Все ответы API следуют одному конверту: success=true плюс полезная
// нагрузка либо success=false плюс error.

// ErrorResponse — конверт ошибки.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SessionResponse — данные текущей сессии для фронтенда.
type SessionResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Avatar  string   `json:"avatar,omitempty"`
	Roles   []string `json:"roleIds"`
	IsAdmin bool     `json:"isAdmin"`
}

// ServerSettings — информация о запущенном сервере для админки.
type ServerSettings struct {
	Hostname    string `json:"hostname"`
	Port        string `json:"port"`
	Environment string `json:"environment"`
	GoVersion   string `json:"goVersion"`
}
