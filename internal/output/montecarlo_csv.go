package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// FinalValuesCSV exports the raw simulated final values, one path per row,
// for plotting the distribution outside the tool.
type FinalValuesCSV struct{}

func (f FinalValuesCSV) Name() string { return "finals-csv" }

func (f FinalValuesCSV) Format(report *Report) ([]byte, error) {
	if report.Projection == nil {
		return nil, fmt.Errorf("%w: final values need a projection", ErrEmptyReport)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Path", "FinalValue"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, v := range report.Projection.FinalValues {
		if err := w.Write([]string{strconv.Itoa(i + 1), fixed(v, 2)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
