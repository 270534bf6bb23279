package domain

import "time"

// TimestampLayout es el formato con resolución de segundos usado en created_at.
const TimestampLayout = "2006-01-02 15:04:05"

// Chat es un hilo de conversación con título visible.
type Chat struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// FormatTimestamp devuelve t en el formato persistido.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ChatTitle genera el título por defecto a partir del timestamp de creación.
func ChatTitle(timestamp string) string {
	return "Chat " + timestamp
}
