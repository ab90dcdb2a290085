package model

const (
	EventTypeStats     = "stats"
	EventTypeBroadcast = "broadcast"
)

// Event is pushed to /events listeners.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type StatsSnapshot struct {
	TotalSubscriptions int    `json:"totalSubscriptions"`
	VAPIDPublicKey     string `json:"vapidPublicKey"`
}
