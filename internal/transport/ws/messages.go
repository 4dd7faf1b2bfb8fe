package ws

// Типы событий, которые ходят по WS-каналу
const (
	TypeStartSession   = "start-session"    // клиент открывает моб
	TypeJoinSession    = "join-session"     // клиент входит в моб
	TypeGetSessionInfo = "get-session-info" // read-only снапшот
	TypeStartAck       = "start-ack"        // ответ инициатору
	TypeSessionInfo    = "session-info"     // ответ на get-session-info
	TypeError          = "error"            // ошибка только запросившему
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type StartSessionPayload struct {
	ProductRef string `json:"productRef"`
	UserID     string `json:"userId"`
}

type JoinSessionPayload struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type GetSessionInfoPayload struct {
	SessionID string `json:"sessionId"`
}

type StartAckPayload struct {
	Success       bool   `json:"success"`
	SessionID     string `json:"sessionId,omitempty"`
	TimeRemaining int64  `json:"timeRemaining,omitempty"`
	Error         string `json:"error,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
