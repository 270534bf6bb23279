package domain

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Greeting es el mensaje con el que se siembra cada chat nuevo.
const Greeting = "Assalam O alaikum Dear! How can I help you today?"

type Message struct {
	ID        int64  `json:"id"`
	ChatID    int64  `json:"chat_id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// IsUser indica si el mensaje fue escrito por el usuario.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}
