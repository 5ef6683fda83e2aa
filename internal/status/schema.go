package status

// Snapshot is the status file schema. RPM is 0 both before the first edge and
// once rotation has stopped; Count == 0 means no revolution was seen yet.
// Timestamp is whole seconds since the daemon started, not wall-clock time. Running
// is false only in the last write before the sensor exits.
type Snapshot struct {
	RPM       float64 `json:"rpm"`
	Count     uint64  `json:"count"`
	Timestamp uint64  `json:"timestamp"`
	Running   bool    `json:"running"`
}
