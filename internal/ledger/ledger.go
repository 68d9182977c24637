// Package ledger persists matched postings as an append-only, newline
// delimited text file and answers O(1) "already seen" queries from an index
// loaded at startup.
package ledger

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// separator sits between the posting label and its score on every ledger
// line. It doubles as the parse anchor when an existing ledger is reloaded.
const separator = " — score: "

// Entry is one matched posting ready to be written to the ledger.
type Entry struct {
	ID    string
	Title string
	Score float64
}

// Label returns the identity recorded in the ledger: the display title when
// present, the opaque identifier otherwise.
func (e Entry) Label() string {
	if title := strings.TrimSpace(e.Title); title != "" {
		return title
	}
	return strings.TrimSpace(e.ID)
}

// Ledger is the file-backed result store. It never deletes entries; the file
// only grows, and every record is synced before the caller moves on so a
// crash loses at most the in-flight posting.
type Ledger struct {
	path  string
	file  *os.File
	index map[string]struct{}
	order []string
}

// Open loads the existing ledger at path, if any, to populate the seen index
// and opens the file for appending. A missing file is created.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path:  path,
		index: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading ledger %q: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		label, ok := parseLine(line)
		if !ok {
			continue
		}
		l.remember(label)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %q for append: %w", path, err)
	}
	l.file = file

	return l, nil
}

// Seen reports whether the label was recorded during this run or loaded from
// a previous one.
func (l *Ledger) Seen(label string) bool {
	_, ok := l.index[strings.TrimSpace(label)]
	return ok
}

// Record appends the entry and syncs the file before updating the in-memory
// index. The ledger is an append log: it does not deduplicate writes, so
// callers wanting idempotence must check Seen first.
func (l *Ledger) Record(e Entry) error {
	line := e.Label() + separator + strconv.FormatFloat(e.Score, 'f', -1, 64)

	if _, err := l.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("appending to ledger %q: %w", l.path, err)
	}

	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("syncing ledger %q: %w", l.path, err)
	}

	l.remember(e.Label())

	return nil
}

// Labels returns the recorded labels in insertion order.
func (l *Ledger) Labels() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Len returns the number of distinct labels in the index.
func (l *Ledger) Len() int {
	return len(l.index)
}

// Path returns the location of the persisted ledger file.
func (l *Ledger) Path() string {
	return l.path
}

// Close releases the underlying file. Records written earlier are already
// synced.
func (l *Ledger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Ledger) remember(label string) {
	if _, ok := l.index[label]; ok {
		return
	}
	l.index[label] = struct{}{}
	l.order = append(l.order, label)
}

// parseLine recovers the label from one persisted ledger line. Lines without
// the separator (including blanks) are skipped rather than treated as errors
// so a hand-edited file does not brick the run.
func parseLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	idx := strings.LastIndex(line, separator)
	if idx < 0 {
		return "", false
	}

	label := strings.TrimSpace(line[:idx])
	if label == "" {
		return "", false
	}

	return label, true
}
