// internal/game/types.go
//
// Core type definitions for the arcade simulation.
// Defines:
//   - Item:   a falling object with a kind and a fixed point value.
//   - Hook:   the sweeping catcher and its animation phase.
//   - View:   render-facing copy of one session.
//   - Result: final outcome handed to observers at game over.

package game

// ItemKind is the closed set of falling item types.
type ItemKind string

const (
	KindPositive ItemKind = "positive" // always scores
	KindNegative ItemKind = "negative" // always costs
	KindMystery  ItemKind = "mystery"  // either sign
)

var itemKinds = [...]ItemKind{KindPositive, KindNegative, KindMystery}

// Item is a single falling object. X is fixed at spawn, Y grows each fall tick.
// Points never change after spawn.
type Item struct {
	ID     int64    `json:"id" msgpack:"id"`
	Kind   ItemKind `json:"kind" msgpack:"kind"`
	Points int      `json:"points" msgpack:"points"`
	X      int      `json:"x" msgpack:"x"`
	Y      int      `json:"y" msgpack:"y"`
}

// Phase is the hook's catch-animation state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseExtending  Phase = "extending"
	PhaseRetracting Phase = "retracting"
)

// Hook sweeps horizontally between HookMin and HookMax. Dir is +1 or -1.
type Hook struct {
	X     int   `json:"x" msgpack:"x"`
	Dir   int   `json:"dir" msgpack:"dir"`
	Phase Phase `json:"phase" msgpack:"phase"`
}

// Status is the game state machine's state.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// EndReason records which terminal condition fired first.
type EndReason string

const (
	ReasonNone   EndReason = ""
	ReasonTimeUp EndReason = "time_up"
	ReasonTarget EndReason = "target_reached"
)

// Caught is the short-lived feedback snapshot of the last caught item.
type Caught struct {
	ItemID int64    `json:"itemId" msgpack:"itemId"`
	Kind   ItemKind `json:"kind" msgpack:"kind"`
	Points int      `json:"points" msgpack:"points"`
}

// View is a detached copy of the session for renderers. Mutating it has no
// effect on the engine.
type View struct {
	Status     Status    `json:"status" msgpack:"status"`
	Generation uint64    `json:"generation" msgpack:"generation"`
	Score      int       `json:"score" msgpack:"score"`
	Target     int       `json:"target" msgpack:"target"`
	TimeLeft   int       `json:"timeLeft" msgpack:"timeLeft"`
	Items      []Item    `json:"items" msgpack:"items"`
	Hook       Hook      `json:"hook" msgpack:"hook"`
	LastCaught *Caught   `json:"lastCaught,omitempty" msgpack:"lastCaught,omitempty"`
	Reason     EndReason `json:"reason,omitempty" msgpack:"reason,omitempty"`
}

// Result is the final outcome of one session.
type Result struct {
	Generation uint64    `json:"generation"`
	Score      int       `json:"score"`
	TimeLeft   int       `json:"timeLeft"`
	Reason     EndReason `json:"reason"`
}

// Observer is notified synchronously, on the engine's goroutine, after each
// committed state change. Implementations must not call back into the engine.
type Observer interface {
	SessionChanged(v View)
	SessionEnded(r Result)
}
