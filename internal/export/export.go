// Package export renders task lists as JSON or CSV for download and
// offline backup.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/werkgeheugen/backend/internal/models"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat decodes a raw format value, defaulting to JSON.
func ParseFormat(raw string) Format {
	if Format(raw) == FormatCSV {
		return FormatCSV
	}
	return FormatJSON
}

// ContentType returns the MIME type to serve the format with.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Filename returns the suggested download filename for the format.
func (f Format) Filename() string {
	return "werkgeheugen-taken." + string(f)
}

// csvHeader is the fixed column set. Row arity must always match it.
var csvHeader = []string{
	"title", "notes", "categorie", "prioriteit", "inspanning",
	"status", "urgent", "deadline", "aangemaakt", "afgerond", "microstap",
}

// WriteJSON writes the tasks as a JSON array of full task objects.
func WriteJSON(w io.Writer, tasks []*models.Task) error {
	if tasks == nil {
		tasks = []*models.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	return nil
}

// WriteCSV writes the tasks as CSV with the fixed 11-column header.
func WriteCSV(w io.Writer, tasks []*models.Task) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, task := range tasks {
		if err := cw.Write(csvRow(task)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// Write encodes the tasks in the requested format.
func Write(w io.Writer, format Format, tasks []*models.Task) error {
	if format == FormatCSV {
		return WriteCSV(w, tasks)
	}
	return WriteJSON(w, tasks)
}

func csvRow(t *models.Task) []string {
	return []string{
		t.Title,
		t.Notes,
		string(t.Category),
		strconv.Itoa(int(t.Priority)),
		string(t.Effort),
		string(t.Status),
		strconv.FormatBool(t.IsUrgent),
		formatDate(t.DueDate),
		t.CreatedAt.Format(time.RFC3339),
		formatTime(t.CompletedAt),
		t.MicroStep,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
