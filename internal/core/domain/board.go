package domain

// SessionID is a short opaque token naming one collaborative whiteboard room.
// It is the partition key for both storage lookups and relay membership.
type SessionID string

// Tool kinds a drawing command may carry.
const (
	ToolPen    = "pen"
	ToolEraser = "eraser"
)

// DrawingCommand is one immutable stroke or eraser action in a canvas history.
// Commands are never mutated in place; a save replaces the whole sequence.
type DrawingCommand struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
	Size  int     `json:"size"`
	Tool  string  `json:"tool"`
}

// Whiteboard is the persisted record for one session: its identifier, the
// username that created it and the ordered canvas command history.
type Whiteboard struct {
	SessionID       SessionID        `json:"session_id"`
	CreatorUsername string           `json:"creator_username"`
	CanvasState     []DrawingCommand `json:"canvas_state"`
}
