package storeclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"panel-store/internal/model"
)

// HistoryEntry is one locally remembered purchase.
type HistoryEntry struct {
	OrderID       string          `json:"orderId"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	PanelType     model.PanelType `json:"panelType"`
	PackageLabel  string          `json:"packageLabel"`
	Price         int             `json:"price"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// History mirrors submitted purchases into a JSON file on this device for
// display continuity across sessions. It is not a source of truth and is
// never reconciled with server state; entries are deleted only by the user.
type History struct {
	path string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

// DefaultHistoryPath puts the file under the user config dir.
func DefaultHistoryPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "panel-store", "transactions.json"), nil
}

func (h *History) List() ([]HistoryEntry, error) {
	raw, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

func (h *History) Add(e HistoryEntry) error {
	if e.CreatedAt == "" {
		e.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	entries, err := h.List()
	if err != nil {
		return err
	}
	entries = append(entries, e)
	return h.write(entries)
}

// Remove deletes the local copy only; the server-side order is untouched.
func (h *History) Remove(orderID string) error {
	entries, err := h.List()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.OrderID != orderID {
			kept = append(kept, e)
		}
	}
	return h.write(kept)
}

func (h *History) write(entries []HistoryEntry) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := os.WriteFile(h.path, raw, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
