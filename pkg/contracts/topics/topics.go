package topics

const (
	// Exportações
	SlipExported = "slip_exported"

	// Redis Pub/Sub
	SessionUpdates = "slip_session_updates"
)
