package signal

import (
	"encoding/json"

	"github.com/appforge/collabhub/internal/core"
	"github.com/appforge/collabhub/internal/domain"
)

// Inbound event types.
const (
	EvJoinRoom        = "join-room"
	EvLeaveRoom       = "leave-room"
	EvCursorMove      = "cursor-move"
	EvSelectionChange = "selection-change"
	EvTextChange      = "text-change"
	EvFileLock        = "file-lock"
	EvFileUnlock      = "file-unlock"
	EvTyping          = "typing"
)

// Outbound event types. EvPresenceUpdate is both inbound and outbound.
const (
	EvRoomUsers       = "room-users"
	EvUserJoined      = "user-joined"
	EvUserLeft        = "user-left"
	EvCursorUpdate    = "cursor-update"
	EvSelectionUpdate = "selection-update"
	EvTextUpdate      = "text-update"
	EvFileLocked      = "file-locked"
	EvFileUnlocked    = "file-unlocked"
	EvTypingUpdate    = "typing-update"
	EvPresenceList    = "presence-list"
	EvPresenceUpdate  = "presence-update"
	EvError           = "error"
)

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type userJoined struct {
	Type        string        `json:"type"`
	UserID      domain.UserID `json:"userId"`
	DisplayName string        `json:"displayName"`
	Email       string        `json:"email"`
}

type userLeft struct {
	Type        string        `json:"type"`
	UserID      domain.UserID `json:"userId"`
	DisplayName string        `json:"displayName"`
}

type roomUsers struct {
	Type   string           `json:"type"`
	RoomID string           `json:"roomId"`
	Users  []core.MemberDTO `json:"users"`
}

type presenceList struct {
	Type     string                                  `json:"type"`
	Presence map[domain.UserID]domain.PresenceStatus `json:"presence"`
}

type presenceUpdate struct {
	Type   string                `json:"type"`
	UserID domain.UserID         `json:"userId"`
	Status domain.PresenceStatus `json:"status"`
}

// Relay payloads. Position, selection and change content is opaque to the
// hub; it is carried through as raw JSON with sender identity attached and
// nothing else.

type cursorMovePayload struct {
	RoomID   string          `json:"roomId" validate:"required,max=128"`
	Position json.RawMessage `json:"position" validate:"required"`
	File     string          `json:"file" validate:"required"`
}

type cursorUpdate struct {
	Type        string          `json:"type"`
	UserID      domain.UserID   `json:"userId"`
	DisplayName string          `json:"displayName"`
	Position    json.RawMessage `json:"position"`
	File        string          `json:"file"`
}

type selectionChangePayload struct {
	RoomID    string          `json:"roomId" validate:"required,max=128"`
	Selection json.RawMessage `json:"selection" validate:"required"`
	File      string          `json:"file" validate:"required"`
}

type selectionUpdate struct {
	Type        string          `json:"type"`
	UserID      domain.UserID   `json:"userId"`
	DisplayName string          `json:"displayName"`
	Selection   json.RawMessage `json:"selection"`
	File        string          `json:"file"`
}

type textChangePayload struct {
	RoomID  string          `json:"roomId" validate:"required,max=128"`
	Changes json.RawMessage `json:"changes" validate:"required"`
	Version int64           `json:"version"`
	File    string          `json:"file" validate:"required"`
}

type textUpdate struct {
	Type        string          `json:"type"`
	UserID      domain.UserID   `json:"userId"`
	DisplayName string          `json:"displayName"`
	Changes     json.RawMessage `json:"changes"`
	Version     int64           `json:"version"`
	File        string          `json:"file"`
}

type fileLockPayload struct {
	RoomID   string `json:"roomId" validate:"required,max=128"`
	FileID   string `json:"fileId" validate:"required"`
	FileName string `json:"fileName" validate:"required"`
}

type fileLocked struct {
	Type        string        `json:"type"`
	UserID      domain.UserID `json:"userId"`
	DisplayName string        `json:"displayName"`
	FileID      string        `json:"fileId"`
	FileName    string        `json:"fileName"`
}

type fileUnlockPayload struct {
	RoomID string `json:"roomId" validate:"required,max=128"`
	FileID string `json:"fileId" validate:"required"`
}

type fileUnlocked struct {
	Type   string        `json:"type"`
	UserID domain.UserID `json:"userId"`
	FileID string        `json:"fileId"`
}

type typingPayload struct {
	RoomID   string `json:"roomId" validate:"required,max=128"`
	IsTyping bool   `json:"isTyping"`
	File     string `json:"file" validate:"required"`
}

type typingUpdate struct {
	Type        string        `json:"type"`
	UserID      domain.UserID `json:"userId"`
	DisplayName string        `json:"displayName"`
	IsTyping    bool          `json:"isTyping"`
	File        string        `json:"file"`
}

// relay broadcasts a shaped event to every member of the stated room except
// the sender. Membership is deliberately not re-validated per event; the
// router trusts prior join-room state.
func (ctl *Controller) relay(id core.ConnID, roomID domain.RoomID, v any) {
	ctl.broadcastRoom(roomID, id, v)
}

func (ctl *Controller) handleCursorMove(id core.ConnID, c *WsConn, data []byte) {
	var p cursorMovePayload
	if !ctl.decode(c, data, &p, "invalid cursor-move payload") {
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	ctl.relay(id, domain.RoomID(p.RoomID), cursorUpdate{
		Type:        EvCursorUpdate,
		UserID:      sender.User.ID,
		DisplayName: sender.User.DisplayName,
		Position:    p.Position,
		File:        p.File,
	})
}

func (ctl *Controller) handleSelectionChange(id core.ConnID, c *WsConn, data []byte) {
	var p selectionChangePayload
	if !ctl.decode(c, data, &p, "invalid selection-change payload") {
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	ctl.relay(id, domain.RoomID(p.RoomID), selectionUpdate{
		Type:        EvSelectionUpdate,
		UserID:      sender.User.ID,
		DisplayName: sender.User.DisplayName,
		Selection:   p.Selection,
		File:        p.File,
	})
}

func (ctl *Controller) handleTextChange(id core.ConnID, c *WsConn, data []byte) {
	var p textChangePayload
	if !ctl.decode(c, data, &p, "invalid text-change payload") {
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	ctl.relay(id, domain.RoomID(p.RoomID), textUpdate{
		Type:        EvTextUpdate,
		UserID:      sender.User.ID,
		DisplayName: sender.User.DisplayName,
		Changes:     p.Changes,
		Version:     p.Version,
		File:        p.File,
	})
}

// File locks are advisory: lock/unlock events are relayed as notifications
// with no server-side exclusivity. Concurrent lockers both get notified.
func (ctl *Controller) handleFileLock(id core.ConnID, c *WsConn, data []byte) {
	var p fileLockPayload
	if !ctl.decode(c, data, &p, "invalid file-lock payload") {
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	ctl.relay(id, domain.RoomID(p.RoomID), fileLocked{
		Type:        EvFileLocked,
		UserID:      sender.User.ID,
		DisplayName: sender.User.DisplayName,
		FileID:      p.FileID,
		FileName:    p.FileName,
	})
}

func (ctl *Controller) handleFileUnlock(id core.ConnID, c *WsConn, data []byte) {
	var p fileUnlockPayload
	if !ctl.decode(c, data, &p, "invalid file-unlock payload") {
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	ctl.relay(id, domain.RoomID(p.RoomID), fileUnlocked{
		Type:   EvFileUnlocked,
		UserID: sender.User.ID,
		FileID: p.FileID,
	})
}

func (ctl *Controller) handleTyping(id core.ConnID, c *WsConn, data []byte) {
	var p typingPayload
	if !ctl.decode(c, data, &p, "invalid typing payload") {
		return
	}
	sender, ok := ctl.Hub.Registry.Get(id)
	if !ok {
		return
	}
	ctl.relay(id, domain.RoomID(p.RoomID), typingUpdate{
		Type:        EvTypingUpdate,
		UserID:      sender.User.ID,
		DisplayName: sender.User.DisplayName,
		IsTyping:    p.IsTyping,
		File:        p.File,
	})
}
