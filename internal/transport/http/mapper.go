package http

import (
	"encoding/json"
	"fmt"

	"securechat/internal/core"
	"securechat/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if err := json.Unmarshal(inbound.Data, &hello); err != nil {
			return nil, nil, err
		}
		// Protocol 0 means the client did not negotiate one.
		if hello.Protocol != 0 && hello.Protocol != proto.ProtocolVersion {
			return nil, &proto.Error{
				Code: core.ErrCodeBadRequest,
				Msg:  fmt.Sprintf("unsupported protocol version %d", hello.Protocol),
			}, nil
		}
		if hello.User == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSetName,
			Name: hello.User,
		}, nil, nil
	case proto.InboundTypeRename:
		var rename proto.RenameData
		if err := json.Unmarshal(inbound.Data, &rename); err != nil {
			return nil, nil, err
		}
		if rename.User == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSetName,
			Name: rename.User,
		}, nil, nil
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.Room,
		}, nil, nil
	case proto.InboundTypeLeave:
		// Leave always targets the session's current room.
		return &core.Command{Kind: core.CommandLeaveRoom}, nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &msg); err != nil {
				return nil, nil, err
			}
		}
		return &core.Command{
			Kind:       core.CommandSendRoomMessage,
			Room:       msg.Room,
			Body:       msg.Text,
			Obfuscated: msg.Obfuscated,
			Attachment: msg.Attachment,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "message",
			Data:  eventMessage(event.Message),
		}
	case core.EventHistory:
		messages := make([]proto.EventMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, eventMessage(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "history",
			Data: proto.EventHistory{
				Room:     event.Room,
				Messages: messages,
			},
		}
	case core.EventStatus:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "status",
			Data: proto.EventStatus{
				Room: event.Room,
				Text: event.Text,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func eventMessage(msg core.Message) proto.EventMessage {
	return proto.EventMessage{
		ID:         msg.ID,
		Room:       msg.Room,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Text:       msg.Body,
		Obfuscated: msg.Obfuscated,
		Attachment: msg.Attachment,
		TS:         msg.CreatedAt.UnixNano(),
	}
}
