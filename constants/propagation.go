package constants

import "time"

// Propagation defaults
const (
	// RecolorProbability is the chance that a pixel takes a new color during a recolor pass
	RecolorProbability = 0.33

	// OutwardBranchProbability is the chance that an unvisited neighbor is grown during outward propagation
	OutwardBranchProbability = 0.5

	// InwardBranchProbability is the chance that an unvisited neighbor is grown during inward propagation
	InwardBranchProbability = 0.33

	// MaxIterations caps the number of propagation frames per user-triggered start, restarts included
	MaxIterations = 1000

	// StartDelay separates seed placement from the first recolor pass and propagation
	StartDelay = 1 * time.Second

	// ColorRetries bounds rejection sampling when a color must differ from another
	ColorRetries = 64
)

// Seed defaults
const (
	SeedX = 0
	SeedY = 0
)
