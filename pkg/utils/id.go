package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSessionID returns a short human-readable session token: the first group
// of a fresh UUID, upper-cased (8 hex characters).
func NewSessionID() string {
	id := uuid.New().String()
	return strings.ToUpper(strings.SplitN(id, "-", 2)[0])
}

// NewRequestID returns a unique identifier for one HTTP request.
func NewRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
