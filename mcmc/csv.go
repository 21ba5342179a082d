package mcmc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ReadCSV loads a trace file: a header row, then one row per sample with an
// id in the first column and one column per parameter. Rows are chain-major:
// all samples of chain 0, then chain 1, and so on.
//
// If params is nil the parameters are named after the header columns. If
// samples is 0 it is inferred from the row count. The returned results are
// not yet available; call MakeAvailable once any other setup is done.
func ReadCSV(r io.Reader, params []Parameter, chains, samples int) (*MemoryResults, error) {
	if chains <= 0 {
		return nil, fmt.Errorf("%w: %d chains", ErrInvalidShape, chains)
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedTrace)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedTrace, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header has no parameter columns", ErrMalformedTrace)
	}
	if params == nil {
		for _, name := range header[1:] {
			params = append(params, NamedParameter(name))
		}
	} else if len(params) != len(header)-1 {
		return nil, fmt.Errorf("%w: %d parameter columns, want %d", ErrMalformedTrace, len(header)-1, len(params))
	}

	var rows [][]float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedTrace, line, err)
		}
		row := make([]float64, len(params))
		for j := range params {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", ErrMalformedTrace, line, j+2, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	if samples == 0 {
		if len(rows)%chains != 0 {
			return nil, fmt.Errorf("%w: %d rows do not split into %d chains", ErrMalformedTrace, len(rows), chains)
		}
		samples = len(rows) / chains
	}
	if len(rows) != chains*samples {
		return nil, fmt.Errorf("%w: %d rows, want %d chains of %d", ErrMalformedTrace, len(rows), chains, samples)
	}

	res, err := NewMemoryResults(params, chains, samples)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		c, s := i/samples, i%samples
		for p, v := range row {
			res.data[p*chains+c][s] = v
		}
	}
	return res, nil
}

// WriteCSV writes the samples of an available provider in the ReadCSV
// format, with 1-based row ids. Values are written in the shortest form
// that reads back to the same float64.
func WriteCSV(w io.Writer, r Results) error {
	if !r.Available() {
		return ErrUnavailable
	}
	cw := csv.NewWriter(w)
	params := r.Parameters()
	if err := cw.Write(append([]string{"id"}, ParameterNames(params)...)); err != nil {
		return fmt.Errorf("mcmc: write header: %w", err)
	}

	chains, n := r.NumberOfChains(), r.NumberOfSamples()
	cols := make([][]float64, len(params))
	rec := make([]string, len(params)+1)
	id := 0
	for c := 0; c < chains; c++ {
		for p := range params {
			s, err := r.Samples(p, c)
			if err != nil {
				return err
			}
			cols[p] = s
		}
		for i := 0; i < n; i++ {
			id++
			rec[0] = strconv.Itoa(id)
			for p := range params {
				rec[p+1] = strconv.FormatFloat(cols[p][i], 'g', -1, 64)
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("mcmc: write row %d: %w", id, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
