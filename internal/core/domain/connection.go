package domain

import "time"

// ConnectionStatus : seuls les edges "active" nourrissent le feed
type ConnectionStatus string

const (
	ConnectionPending ConnectionStatus = "pending"
	ConnectionActive  ConnectionStatus = "active"
	ConnectionRemoved ConnectionStatus = "removed"
)

// Connection représente un lien dirigé dans le graphe (follower -> following)
type Connection struct {
	FollowerID  string // Celui qui suit
	FollowingID string // Celui qui est suivi
	Status      ConnectionStatus
	CreatedAt   time.Time
}

func (c Connection) Active() bool {
	return c.Status == ConnectionActive
}
