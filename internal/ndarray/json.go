package ndarray

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// arrayJSON is the on-disk form of an Array.
type arrayJSON struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// MarshalJSON encodes the array as {"rows", "cols", "data"} with row-major data.
// encoding/json writes the shortest representation that parses back to the
// same float64, so a round trip is bit-exact.
func (a Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(arrayJSON{Rows: a.Rows(), Cols: a.Cols(), Data: a.Data()})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (a *Array) UnmarshalJSON(b []byte) error {
	var raw arrayJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.Wrap(err, "ndarray: decode")
	}
	arr, err := New(raw.Rows, raw.Cols, raw.Data)
	if err != nil {
		return err
	}
	*a = arr
	return nil
}
