package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// SessionID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}
