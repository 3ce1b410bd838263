// Package ledger keeps a record of issued verification payloads so a scanned
// payload can be checked against what was actually issued.
package ledger

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const currentVersion = "1.0"

// Entry is one issued payload
type Entry struct {
	Fingerprint string `json:"fingerprint"`
	ReportID    string `json:"report_id"`
	IssuedAt    string `json:"issued_at"`
}

// Ledger is a set of issued payload fingerprints
type Ledger struct {
	Version   string  `json:"version"`
	UpdatedAt string  `json:"updated_at,omitempty"`
	Entries   []Entry `json:"entries"`
	index     map[string]int // fingerprint -> position in Entries
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		Version: currentVersion,
		Entries: []Entry{},
		index:   make(map[string]int),
	}
}

// Load reads a ledger from a JSON file
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}
	if l.Entries == nil {
		l.Entries = []Entry{}
	}
	l.reindex()
	return &l, nil
}

// LoadOrNew loads the ledger at path, or returns an empty one if the file does not exist yet
func LoadOrNew(path string) (*Ledger, error) {
	l, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	return l, err
}

// Save writes the ledger as JSON, entries sorted by fingerprint
func (l *Ledger) Save(path string) error {
	sort.Slice(l.Entries, func(i, j int) bool {
		return l.Entries[i].Fingerprint < l.Entries[j].Fingerprint
	})
	l.reindex()
	l.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	return nil
}

// Record adds a payload to the ledger. It returns false if the payload was
// already recorded, in which case the existing entry is kept.
func (l *Ledger) Record(payloadText, reportID string, issuedAt time.Time) bool {
	if l.index == nil {
		l.reindex()
	}
	fp := Fingerprint(payloadText)
	if _, ok := l.index[fp]; ok {
		return false
	}
	l.Entries = append(l.Entries, Entry{
		Fingerprint: fp,
		ReportID:    reportID,
		IssuedAt:    issuedAt.UTC().Format(time.RFC3339),
	})
	l.index[fp] = len(l.Entries) - 1
	return true
}

// Lookup finds the entry for a payload
func (l *Ledger) Lookup(payloadText string) (Entry, bool) {
	if l == nil || l.index == nil {
		return Entry{}, false
	}
	i, ok := l.index[Fingerprint(payloadText)]
	if !ok {
		return Entry{}, false
	}
	return l.Entries[i], true
}

// Contains reports whether a payload was recorded
func (l *Ledger) Contains(payloadText string) bool {
	_, ok := l.Lookup(payloadText)
	return ok
}

// Len is the number of recorded payloads
func (l *Ledger) Len() int {
	return len(l.Entries)
}

func (l *Ledger) reindex() {
	l.index = make(map[string]int, len(l.Entries))
	for i, e := range l.Entries {
		l.index[e.Fingerprint] = i
	}
}

// Fingerprint hashes payload text. Line endings and trailing newlines added
// by scanners do not change the fingerprint.
func Fingerprint(payloadText string) string {
	normalized := strings.TrimRight(strings.ReplaceAll(payloadText, "\r\n", "\n"), "\n")
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hash)
}
