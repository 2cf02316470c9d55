package extraction

// Extractor defines the interface for invoice extraction providers
type Extractor interface {
	// ExtractInvoice analyzes an invoice image/PDF and extracts its data
	ExtractInvoice(imageData []byte, contentType string) (*Result, error)
	// Close closes the extractor and releases resources
	Close() error
}

// ConfigurationError indicates the extractor cannot be constructed because
// a required setting (typically the API key) is missing. It is fatal: no
// extraction can be attempted until it is fixed.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return "missing required configuration: " + e.Setting
}

// ServiceError indicates the inference call failed at the transport or
// service level, before any usable model output was produced.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return e.Provider + " extraction failed: " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
