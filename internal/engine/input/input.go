// Package input turns window events into viewer actions.
package input

// EventType identifies a window event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a keyboard key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyQ
	KeyS
	KeyR
	KeySpace
	KeyF12
)

// Mouse buttons
const (
	ButtonLeft  uint8 = 1
	ButtonRight uint8 = 3
)

// Event is a window event with the fields relevant to its type.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Button uint8
	Wheel  float32
}

// Actions collects what the viewer should do after one batch of events.
type Actions struct {
	Quit          bool
	ToggleShadows bool
	TogglePause   bool
	ResetView     bool
	Capture       bool

	Resized       bool
	Width, Height int

	// Orbit drag in pixels and accumulated wheel steps
	DragX, DragY float32
	Zoom         float32
}

// Controls maps events to actions, tracking drag state across frames.
type Controls struct {
	dragging bool
}

// Process folds events into a single Actions value.
func (c *Controls) Process(events []Event) Actions {
	var a Actions
	for _, e := range events {
		switch e.Type {
		case EventQuit:
			a.Quit = true

		case EventWindowResize:
			a.Resized = true
			a.Width, a.Height = e.Width, e.Height

		case EventKeyDown:
			switch e.Key {
			case KeyEscape, KeyQ:
				a.Quit = true
			case KeyS:
				a.ToggleShadows = !a.ToggleShadows
			case KeySpace:
				a.TogglePause = !a.TogglePause
			case KeyR:
				a.ResetView = true
			case KeyF12:
				a.Capture = true
			}

		case EventMouseDown:
			if e.Button == ButtonLeft {
				c.dragging = true
			}

		case EventMouseUp:
			if e.Button == ButtonLeft {
				c.dragging = false
			}

		case EventMouseMove:
			if c.dragging {
				a.DragX += float32(e.DeltaX)
				a.DragY += float32(e.DeltaY)
			}

		case EventMouseWheel:
			a.Zoom += e.Wheel
		}
	}
	return a
}

// Dragging reports whether the left button is held.
func (c *Controls) Dragging() bool { return c.dragging }
