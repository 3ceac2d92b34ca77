package main

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes protocol messages for one websocket frame type.
type Codec interface {
	Name() string
	MessageType() int
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) MessageType() int                   { return websocket.TextMessage }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) Name() string                       { return "msgpack" }
func (msgpackCodec) MessageType() int                   { return websocket.BinaryMessage }
func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// CodecByName returns the codec used for outgoing messages.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return jsonCodec{}, nil
	case "msgpack":
		return msgpackCodec{}, nil
	}
	return nil, fmt.Errorf("unknown codec %q (want json or msgpack)", name)
}

// decodeClientMessage accepts either encoding: text frames are JSON, binary
// frames are msgpack, whatever the server sends.
func decodeClientMessage(messageType int, raw []byte) (ClientMessage, error) {
	var c Codec = jsonCodec{}
	if messageType == websocket.BinaryMessage {
		c = msgpackCodec{}
	}
	var msg ClientMessage
	if len(raw) == 0 {
		return msg, fmt.Errorf("empty %s message", c.Name())
	}
	if err := c.Unmarshal(raw, &msg); err != nil {
		return msg, fmt.Errorf("decode %s message: %w", c.Name(), err)
	}
	if msg.Type == "" {
		return msg, fmt.Errorf("%s message without type", c.Name())
	}
	return msg, nil
}
