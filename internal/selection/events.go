package selection

// EventType identifies a renderer-facing event.
type EventType string

const (
	// EventNodeSelected fires immediately on click: the renderer should
	// highlight the node and center the camera on it.
	EventNodeSelected EventType = "node_selected"

	// EventSelectionCompleted fires once the related set is known, either
	// straight away or after a lazy enrichment resolves.
	EventSelectionCompleted EventType = "selection_completed"

	// EventSelectionCleared fires on reset: the renderer should restore
	// the default fit-to-view framing.
	EventSelectionCleared EventType = "selection_cleared"

	// EventBooksUpdated fires when an enrichment result was merged into
	// the book list, including late results from superseded selections.
	EventBooksUpdated EventType = "books_updated"
)

// Event is published to the renderer side. Camera framing is fire-and-forget
// and carried by the event type alone.
type Event struct {
	Type    EventType `json:"type"`
	NodeID  string    `json:"nodeId,omitempty"`
	Related []string  `json:"related,omitempty"`
}

// Bus delivers events to whatever is rendering the graph. It replaces the
// ambient global callbacks a browser port of this design tends to grow:
// ownership passes the bus in explicitly.
type Bus interface {
	Publish(Event)
}

// NopBus discards all events.
type NopBus struct{}

// Publish implements Bus.
func (NopBus) Publish(Event) {}
