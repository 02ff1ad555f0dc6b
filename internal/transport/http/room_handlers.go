package http

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"securechat/internal/core"
	"securechat/internal/proto"
)

// RoomHandlers provides HTTP handlers for the room catalog endpoints.
type RoomHandlers struct {
	rooms *core.RoomStore
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(rooms *core.RoomStore, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		rooms: rooms,
		log:   logger,
	}
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	Name     string `json:"name"`
	Members  int    `json:"members"`
	Messages int    `json:"messages"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListRooms returns the room catalog with member and log counts.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	infos := h.rooms.Rooms()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	response := make([]RoomResponse, 0, len(infos))
	for _, info := range infos {
		response = append(response, RoomResponse{
			Name:     info.Name,
			Members:  info.Members,
			Messages: info.Messages,
		})
	}

	h.log.Debug().Int("room_count", len(response)).Msg("rooms listed")
	c.JSON(http.StatusOK, response)
}

// RoomMessages returns the bounded recent history for one room, the same
// snapshot a joining member receives.
// GET /api/rooms/:room/messages
func (h *RoomHandlers) RoomMessages(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room is required"})
		return
	}

	snapshot := h.rooms.Snapshot(room)
	messages := make([]proto.EventMessage, 0, len(snapshot))
	for _, msg := range snapshot {
		messages = append(messages, eventMessage(msg))
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "messages": messages})
}
