package invoice

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zombor/invoice-extractor/internal/extraction"
)

// unknownInvoiceNumber is the placeholder used in derived filenames when the
// model did not find an invoice number.
const unknownInvoiceNumber = "unknown"

// StorageError indicates the results directory or a specific result file
// could not be read or written.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// StoredResult describes one file in the results directory
type StoredResult struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
}

// ResultStore persists extraction results as pretty-printed JSON files in a
// flat directory. One file per extraction, last write wins on a name
// collision.
type ResultStore struct {
	dir        string
	timeSource TimeSource
}

// NewResultStore creates a ResultStore, creating the directory if absent
func NewResultStore(dir string) (*ResultStore, error) {
	return NewResultStoreWithTimeSource(dir, &defaultTimeSource{})
}

// NewResultStoreWithTimeSource creates a ResultStore with a custom time
// source for testing
func NewResultStoreWithTimeSource(dir string, timeSource TimeSource) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "creating results directory", Name: dir, Err: err}
	}
	return &ResultStore{dir: dir, timeSource: timeSource}, nil
}

// Save writes a result to the results directory and returns the filename it
// was stored under. An empty name derives one from the invoice number and
// the current timestamp.
func (s *ResultStore) Save(result *extraction.Result, name string) (string, error) {
	if name == "" {
		name = deriveName(result, s.timeSource.Now())
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", &StorageError{Op: "encoding result", Name: name, Err: err}
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", &StorageError{Op: "writing result", Name: name, Err: err}
	}
	return name, nil
}

// List returns the stored result files, most recently modified first
func (s *ResultStore) List() ([]StoredResult, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &StorageError{Op: "listing results", Name: s.dir, Err: err}
	}

	results := make([]StoredResult, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, &StorageError{Op: "reading result info", Name: entry.Name(), Err: err}
		}
		results = append(results, StoredResult{
			Name:       entry.Name(),
			ModifiedAt: info.ModTime(),
			Size:       info.Size(),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ModifiedAt.After(results[j].ModifiedAt)
	})
	return results, nil
}

// Load reads and parses a previously stored result
func (s *ResultStore) Load(name string) (*extraction.Result, error) {
	data, err := s.Raw(name)
	if err != nil {
		return nil, err
	}

	var result extraction.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &StorageError{Op: "parsing result", Name: name, Err: err}
	}
	return &result, nil
}

// Raw returns the stored file bytes as written, for download
func (s *ResultStore) Raw(name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, &StorageError{Op: "reading result", Name: name, Err: err}
	}
	return data, nil
}

// deriveName builds invoice_<number>_<YYYYMMDD_HHMMSS>.json. Path separators
// in the invoice number are substituted so the name stays a single segment.
func deriveName(result *extraction.Result, now time.Time) string {
	number := unknownInvoiceNumber
	if n := result.InvoiceDetails.InvoiceNumber; n != nil && strings.TrimSpace(*n) != "" {
		number = strings.TrimSpace(*n)
	}
	number = strings.NewReplacer("/", "_", "\\", "_").Replace(number)
	return fmt.Sprintf("invoice_%s_%s.json", number, now.Format("20060102_150405"))
}

// validateName rejects names that would escape the results directory
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return &StorageError{Op: "validating name", Name: name, Err: fmt.Errorf("not a valid result name")}
	}
	return nil
}
