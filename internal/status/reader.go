package status

import (
	"bytes"
	"encoding/json"
	"os"

	"codeberg.org/mutker/wheelspeed/internal/errors"
)

// Read loads the current snapshot from path. A missing or empty file yields
// ErrStatusUnavailable; the sensor may simply not have written yet.
func Read(path string) (Snapshot, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errFactory.Wrap(ErrStatusUnavailable, err)
	}

	return decode(data)
}

func decode(data []byte) (Snapshot, error) {
	errFactory := errors.New()

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Snapshot{}, errFactory.New(ErrStatusUnavailable)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, errFactory.Wrap(ErrStatusDecode, err)
	}

	return snapshot, nil
}
