// Package audit keeps a journal of catalog changes, one JSON file per event.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// Event is a single journal entry. Book holds the record as it was right
// after the change (or right before it, for removals).
type Event struct {
	ID        string         `json:"id"`
	Time      time.Time      `json:"time"`
	Operation string         `json:"operation"`
	ISBN      string         `json:"isbn"`
	Book      *entities.Book `json:"book"`
}

type Auditor struct {
	AuditDir string
	logger   *log.Logger
	now      func() time.Time
}

func NewAuditor(auditDir string, logger *log.Logger) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
		logger:   logging.OrDefault(logger).WithPrefix("audit"),
		now:      time.Now,
	}
}

// RecordMutation writes an event for op applied to book.
func (a *Auditor) RecordMutation(op string, book *entities.Book) error {
	event := Event{
		ID:        uuid.NewString(),
		Time:      a.now().UTC(),
		Operation: op,
		ISBN:      book.ISBN,
		Book:      book,
	}
	_, err := a.SaveJSON(event.ID, event)
	return err
}

// SaveJSON saves the provided data as JSON to <id>.json in the audit directory
func (a *Auditor) SaveJSON(id string, data any) (string, error) {
	if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := id + ".json"
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	a.logger.Debug("audit event saved", "file", path)
	return filename, nil
}

// Events reads every journal entry, oldest first.
func (a *Auditor) Events() ([]Event, error) {
	matches, err := filepath.Glob(filepath.Join(a.AuditDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list audit files: %w", err)
	}

	events := make([]Event, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read audit file: %w", err)
		}
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			a.logger.Warn("skipping unreadable audit file", "file", path, "err", err)
			continue
		}
		events = append(events, event)
	}

	slices.SortStableFunc(events, func(x, y Event) int {
		return x.Time.Compare(y.Time)
	})
	return events, nil
}
