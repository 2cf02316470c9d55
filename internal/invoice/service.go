package invoice

import (
	"fmt"
	"log/slog"

	"github.com/zombor/invoice-extractor/internal/extraction"
)

// Service runs the extraction pipeline: invoke the model, normalize the
// reply, persist the result. Each upload is a single independent attempt; a
// failed extraction persists nothing.
type Service struct {
	extractor extraction.Extractor
	store     *ResultStore
}

// NewService creates a new Service
func NewService(extractor extraction.Extractor, store *ResultStore) *Service {
	return &Service{
		extractor: extractor,
		store:     store,
	}
}

// ProcessInvoice extracts data from an uploaded invoice image and saves the
// result. It returns the result and the filename it was stored under.
func (s *Service) ProcessInvoice(filename string, data []byte, contentType string) (*extraction.Result, string, error) {
	result, err := s.extractor.ExtractInvoice(data, contentType)
	if err != nil {
		slog.Error("Failed to extract invoice",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, "", fmt.Errorf("extracting invoice: %w", err)
	}

	savedName, err := s.store.Save(result, "")
	if err != nil {
		slog.Error("Failed to save extraction result", "filename", filename, "error", err)
		return nil, "", fmt.Errorf("saving result: %w", err)
	}

	slog.Info("Extracted invoice", "filename", filename, "saved_as", savedName)
	return result, savedName, nil
}

// ListResults returns the stored results, most recent first
func (s *Service) ListResults() ([]StoredResult, error) {
	results, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	return results, nil
}

// LoadResult reloads a previously stored result by filename
func (s *Service) LoadResult(name string) (*extraction.Result, error) {
	result, err := s.store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("loading result: %w", err)
	}
	return result, nil
}

// ResultFile returns the stored file bytes as written, for download
func (s *Service) ResultFile(name string) ([]byte, error) {
	data, err := s.store.Raw(name)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	return data, nil
}
