package validation

import (
	"fmt"
	"regexp"
	"strings"

	"drawnet/internal/core/domain"
)

var (
	// SessionIDRegex matches the short uppercase tokens produced at session
	// creation (first UUID group, upper-cased).
	SessionIDRegex = regexp.MustCompile(`^[A-F0-9]{8}$`)

	// UsernameRegex restricts usernames to a safe character set.
	UsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// ColorRegex accepts CSS hex colors (#000, #1a2b3c) and simple color names.
	ColorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|[a-zA-Z]{1,30})$`)
)

// ValidateUsername validates a claimed username.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) > 50 {
		return fmt.Errorf("username is too long (max 50 characters)")
	}
	if !UsernameRegex.MatchString(username) {
		return fmt.Errorf("username contains invalid characters (only letters, numbers, _, -, . allowed)")
	}
	return nil
}

// ValidateSessionID validates a session identifier for REST lookups. Relay
// joins accept any non-empty id; stored boards always carry the short form.
func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}
	if len(sessionID) > 100 {
		return fmt.Errorf("session ID is too long (max 100 characters)")
	}
	return nil
}

// ValidateDrawingCommand checks one command's shape before storage.
func ValidateDrawingCommand(cmd domain.DrawingCommand) error {
	if cmd.Color == "" {
		return fmt.Errorf("color is required")
	}
	if !ColorRegex.MatchString(cmd.Color) {
		return fmt.Errorf("invalid color format")
	}
	if cmd.Size <= 0 {
		return fmt.Errorf("size must be > 0")
	}
	if cmd.Size > 200 {
		return fmt.Errorf("size is too large (max 200)")
	}
	switch cmd.Tool {
	case domain.ToolPen, domain.ToolEraser:
	default:
		return fmt.Errorf("invalid tool %q (must be pen or eraser)", cmd.Tool)
	}
	return nil
}

// ValidateCanvasState checks every command in a canvas state sequence.
func ValidateCanvasState(commands []domain.DrawingCommand) error {
	for i, cmd := range commands {
		if err := ValidateDrawingCommand(cmd); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	return nil
}
