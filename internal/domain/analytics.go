package domain

// SuspectNode is a node that appears in the history of problematic lots.
type SuspectNode struct {
	Node        Node
	Occurrences int64
	LotIDs      []string
}
