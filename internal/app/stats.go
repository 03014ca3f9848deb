package app

// Stats is a point-in-time aggregate view derived from registry, rooms and
// presence state. Read-only; computing it never blocks event relay.
type Stats struct {
	ConnectedUsers int `json:"connectedUsers"`
	ActiveRooms    int `json:"activeRooms"`
	OnlineUsers    int `json:"onlineUsers"`
}

func (h *Hub) Stats() Stats {
	return Stats{
		ConnectedUsers: h.Registry.Count(),
		ActiveRooms:    h.Rooms.Count(),
		OnlineUsers:    h.Presence.OnlineCount(),
	}
}
