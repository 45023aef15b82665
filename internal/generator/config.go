package generator

import "time"

// Config drives the synthetic data generator.
type Config struct {
	NumLots int
	// HoldShare and InvestigateShare are the fractions of lots created in
	// those statuses; the rest are OK.
	HoldShare        float64
	InvestigateShare float64
	// ExportChance is the probability that an OK lot reaches an exporter.
	ExportChance float64
	// Anchor is the end of the harvest window. Zero means now.
	Anchor time.Time
	Seed   int64
}

// DefaultConfig returns settings matching the demo tracker dataset.
func DefaultConfig() Config {
	return Config{
		NumLots:          100,
		HoldShare:        0.15,
		InvestigateShare: 0.10,
		ExportChance:     0.7,
		Seed:             42,
	}
}
