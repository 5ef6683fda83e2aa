package sensor

import "github.com/zoobzio/capitan"

// Lifecycle signals.
var (
	// SensorStarted is emitted once the line is acquired and the loop runs.
	SensorStarted = capitan.NewSignal(
		"wheelspeed.sensor.started",
		"Sensing loop started",
	)

	// RotationDetected is emitted for every accepted edge.
	RotationDetected = capitan.NewSignal(
		"wheelspeed.sensor.rotation",
		"Revolution detected",
	)

	// RotationStopped is emitted when no edge arrived within the timeout.
	RotationStopped = capitan.NewSignal(
		"wheelspeed.sensor.stopped_rotating",
		"Rotation stopped",
	)

	// SensorTerminated is emitted after the line has been released.
	SensorTerminated = capitan.NewSignal(
		"wheelspeed.sensor.terminated",
		"Sensing loop terminated",
	)
)

// Field keys for sensor events.
var (
	KeyLine  = capitan.NewIntKey("line")
	KeyCount = capitan.NewIntKey("count")
	KeyState = capitan.NewStringKey("state")

	// KeyError is set on SensorTerminated when the loop failed.
	KeyError = capitan.NewStringKey("error")
)
