package provider

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/rpgo/portfolio-projector/internal/domain"
	"github.com/rpgo/portfolio-projector/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// LoadReturnSeriesCSV reads a return series from a CSV file with a header row
// and columns date,return. Dates are 2006-01-02 or a bare year; an empty date
// column leaves the observation undated. A blank or NaN return marks a missing
// observation.
func LoadReturnSeriesCSV(path string) (domain.ReturnSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	series, err := ReadReturnSeries(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// ReadReturnSeries parses the CSV layout described by LoadReturnSeriesCSV.
func ReadReturnSeries(r io.Reader) (domain.ReturnSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	var series domain.ReturnSeries
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected date and return columns", line)
		}

		date, err := dateutil.ParseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ret, err := parseReturn(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		series = append(series, domain.ReturnObservation{Date: date, Return: ret})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	return series, nil
}

func parseReturn(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid return %q", s)
	}
	f, _ := value.Float64()
	return f, nil
}
