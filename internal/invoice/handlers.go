package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/invoice-extractor/internal/extraction"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeError writes a JSON error response carrying the error kind, so the
// UI can tell a bad model reply from a dead service or a storage problem.
func writeError(w http.ResponseWriter, kind, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"kind":  kind,
		"error": message,
	})
}

// errorKind maps pipeline errors to an error kind and HTTP status
func errorKind(err error) (string, int) {
	var parseErr *extraction.ParseError
	var serviceErr *extraction.ServiceError
	var storageErr *StorageError

	switch {
	case errors.As(err, &parseErr):
		return "parse_error", http.StatusUnprocessableEntity
	case errors.As(err, &serviceErr):
		return "service_error", http.StatusBadGateway
	case errors.As(err, &storageErr):
		if errors.Is(storageErr.Err, fs.ErrNotExist) {
			return "not_found", http.StatusNotFound
		}
		return "storage_error", http.StatusInternalServerError
	}
	return "internal_error", http.StatusInternalServerError
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// extractionResponse is the payload for a fresh or reloaded extraction. The
// total tax is derived for display and never persisted.
type extractionResponse struct {
	Filename string             `json:"filename"`
	Result   *extraction.Result `json:"result"`
	TotalTax float64            `json:"total_tax"`
}

// handleExtract handles invoice upload and extraction
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// 50MB cap to handle high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		writeError(w, "bad_request", errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, "bad_request", "No file was selected. Please choose an invoice image to upload.", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		writeError(w, "bad_request", "File is too large. Maximum size is 50MB.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, "bad_request", "Error reading file. Please try again.", http.StatusBadRequest)
		return
	}

	contentType := contentTypeFor(header.Header.Get("Content-Type"), header.Filename)

	result, savedName, err := s.service.ProcessInvoice(header.Filename, data, contentType)
	if err != nil {
		kind, code := errorKind(err)
		writeError(w, kind, err.Error(), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(extractionResponse{
		Filename: savedName,
		Result:   result,
		TotalTax: result.TotalTax(),
	}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListResults returns the stored results, most recent first
func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.service.ListResults()
	if err != nil {
		slog.Error("Error listing results", "error", err)
		kind, code := errorKind(err)
		writeError(w, kind, "Error listing results", code)
		return
	}

	if results == nil {
		results = []StoredResult{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetResult reloads a stored result
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	result, err := s.service.LoadResult(name)
	if err != nil {
		kind, code := errorKind(err)
		writeError(w, kind, "Error loading result", code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(extractionResponse{
		Filename: name,
		Result:   result,
		TotalTax: result.TotalTax(),
	}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleDownloadResult serves the stored JSON file as an attachment
func (s *Server) handleDownloadResult(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := s.service.ResultFile(name)
	if err != nil {
		kind, code := errorKind(err)
		writeError(w, kind, "Error reading result file", code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}

// contentTypeFor falls back to the file extension when the browser did not
// send a usable content type
func contentTypeFor(contentType, filename string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
