// Package export renders climate series as downloadable CSV, JSON or plain text.
package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrUnsupportedFormat is returned for unknown export formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

const source = "NASA POWER"

// ParseFormat parses a format name; "text" is accepted for FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename builds the download name for an export of loc taken at t.
func Filename(loc weather.Location, f Format, t time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(loc.Name), " ", "-")
	return fmt.Sprintf("nasa-power-%s-%s.%s", name, t.UTC().Format(time.DateOnly), f)
}

// Request describes one export.
type Request struct {
	Format     Format
	Location   weather.Location
	Records    []weather.ObservationRecord
	Parameters []weather.Parameter
	ExportedAt time.Time
}

// Write renders the request to w. Only the selected parameters are written, in the
// order they were selected.
func Write(w io.Writer, req Request) error {
	switch req.Format {
	case FormatCSV:
		return writeCSV(w, req)
	case FormatJSON:
		return writeJSON(w, req)
	case FormatText:
		return writeText(w, req)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeCSV(w io.Writer, req Request) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(req.Parameters)+1)
	header = append(header, "Date")
	for _, p := range req.Parameters {
		header = append(header, p.Name())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, r := range req.Records {
		row[0] = r.Date.String()
		for i, p := range req.Parameters {
			row[i+1] = ""
			if v, ok := r.Value(p); ok {
				row[i+1] = formatValue(v)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// row is one record restricted to the selected parameters. It marshals its keys in
// selection order.
type row struct {
	record weather.ObservationRecord
	params []weather.Parameter
}

func (r row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"date":"`)
	buf.WriteString(r.record.Date.String())
	buf.WriteByte('"')
	for _, p := range r.params {
		key, err := json.Marshal(string(p))
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		if v, ok := r.record.Value(p); ok {
			buf.WriteString(formatValue(v))
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type jsonMetadata struct {
	ExportDate  time.Time `json:"exportDate"`
	Source      string    `json:"source"`
	Coordinates string    `json:"coordinates"`
}

type jsonExport struct {
	Location   weather.Location    `json:"location"`
	Parameters []weather.Parameter `json:"parameters"`
	Data       []row               `json:"data"`
	Metadata   jsonMetadata        `json:"metadata"`
}

func writeJSON(w io.Writer, req Request) error {
	out := jsonExport{
		Location:   req.Location,
		Parameters: req.Parameters,
		Data:       make([]row, 0, len(req.Records)),
		Metadata: jsonMetadata{
			ExportDate:  req.ExportedAt.UTC(),
			Source:      source,
			Coordinates: fmt.Sprintf("%s, %s", formatValue(req.Location.Latitude), formatValue(req.Location.Longitude)),
		},
	}
	if out.Parameters == nil {
		out.Parameters = []weather.Parameter{}
	}
	for _, r := range req.Records {
		out.Data = append(out.Data, row{record: r, params: req.Parameters})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, req Request) error {
	bw := bufio.NewWriter(w)

	keys := make([]string, 0, len(req.Parameters))
	for _, p := range req.Parameters {
		keys = append(keys, string(p))
	}

	fmt.Fprintf(bw, "%s Data Export\n", source)
	fmt.Fprintf(bw, "Location: %s (%s, %s)\n", req.Location.Name,
		formatValue(req.Location.Latitude), formatValue(req.Location.Longitude))
	fmt.Fprintf(bw, "Export Date: %s\n", req.ExportedAt.UTC().Format(time.DateOnly))
	fmt.Fprintf(bw, "Parameters: %s\n\n", strings.Join(keys, ", "))

	for _, r := range req.Records {
		fmt.Fprintf(bw, "Date: %s\n", r.Date)
		for _, p := range req.Parameters {
			value := "N/A"
			if v, ok := r.Value(p); ok {
				value = formatValue(v)
			}
			fmt.Fprintf(bw, "  %s: %s\n", p.Name(), value)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}
