package constants

import "time"

// Surface dimensions in cells
const (
	SurfaceWidth  = 800
	SurfaceHeight = 500
)

// Display timing
const (
	// FrameUpdateInterval is the frame tick of the interactive loop (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// HeadlessFrameLimit bounds headless runs; restarts re-arm the start delay so the bound is in frames, not iterations
	HeadlessFrameLimit = 200_000
)

// Snapshot defaults
const (
	SnapshotPath  = "pixel-play.png"
	SnapshotScale = 1
)

// Status bar
const (
	StatusBarHeight = 1
	PanStep         = 8
	PanStepFast     = 40
)
