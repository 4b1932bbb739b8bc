package domain

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidSessionID  = errors.New("invalid session id")
	ErrSessionExists     = errors.New("session already exists")
	ErrInvalidCommand    = errors.New("invalid drawing command")
	ErrConnectionClosed  = errors.New("connection closed")
	ErrPeerAlreadyJoined = errors.New("peer already joined session")
)
