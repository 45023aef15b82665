package render

import (
	"encoding/json"
	"io"
)

// Document is the JSON form of a View.
type Document struct {
	State     State  `json:"state"`
	Message   string `json:"message,omitempty"`
	Separator string `json:"separator,omitempty"`
	Nodes     []Box  `json:"nodes"`
}

// NewDocument converts view to its JSON form.
func NewDocument(view View) Document {
	doc := Document{
		State:   view.State,
		Message: view.Message,
		Nodes:   []Box{},
	}
	if view.State == StateReady {
		doc.Separator = view.Row.Separator
		doc.Nodes = append(doc.Nodes, view.Row.Boxes...)
	}
	return doc
}

// JSON writes the view as an indented JSON document.
func JSON(w io.Writer, view View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(view))
}
