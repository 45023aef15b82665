package render

import "github.com/vanshika/lottrace/internal/domain"

// Separator is drawn between consecutive boxes.
const Separator = "→"

// Fallback messages.
const (
	MessageEmpty  = "No movement data for this lot yet."
	MessageFailed = "Failed to load the lot path graph."
)

// State selects what a View displays.
type State string

const (
	StateReady  State = "ready"
	StateEmpty  State = "empty"
	StateFailed State = "failed"
)

// Box is one node of the path as displayed.
type Box struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Row is the left-to-right sequence of boxes.
type Row struct {
	Boxes     []Box
	Separator string
}

// View is everything a renderer needs to draw the lot path area.
type View struct {
	State   State
	Row     Row
	Message string
}

// BuildRow describes path as a row of boxes.
func BuildRow(path []domain.Node) Row {
	boxes := make([]Box, 0, len(path))
	for _, n := range path {
		boxes = append(boxes, Box{Name: n.Name, Type: n.Type})
	}
	return Row{Boxes: boxes, Separator: Separator}
}

// Ready returns a view that draws row.
func Ready(row Row) View {
	return View{State: StateReady, Row: row}
}

// Empty returns the "no data yet" view.
func Empty() View {
	return View{State: StateEmpty, Message: MessageEmpty}
}

// Failed returns the "load failed" view.
func Failed() View {
	return View{State: StateFailed, Message: MessageFailed}
}
