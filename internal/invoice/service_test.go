package invoice

import (
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-extractor/internal/extraction"
)

// mockExtractor is a test double for the extraction provider
type mockExtractor struct {
	result     *extraction.Result
	err        error
	calls      int
	lastData   []byte
	lastType   string
	closeCalls int
}

func (m *mockExtractor) ExtractInvoice(imageData []byte, contentType string) (*extraction.Result, error) {
	m.calls++
	m.lastData = imageData
	m.lastType = contentType
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockExtractor) Close() error {
	m.closeCalls++
	return nil
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{
		result: &extraction.Result{
			InvoiceDetails: extraction.InvoiceDetails{
				InvoiceNumber: strPtr("INV-7"),
				InvoiceTotal:  extraction.Amount(10),
			},
			LineItems: []extraction.LineItem{},
		},
	}
}

var _ = Describe("Service", func() {
	var (
		tmpDir    string
		extractor *mockExtractor
		store     *ResultStore
		service   *Service
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		timeSource := &fixedTimeSource{t: time.Date(2024, 3, 20, 14, 30, 5, 0, time.UTC)}
		store, err = NewResultStoreWithTimeSource(tmpDir, timeSource)
		Expect(err).NotTo(HaveOccurred())

		extractor = newMockExtractor()
		service = NewService(extractor, store)
	})

	Describe("ProcessInvoice", func() {
		var (
			result    *extraction.Result
			savedName string
			err       error
		)

		JustBeforeEach(func() {
			result, savedName, err = service.ProcessInvoice("invoice.jpg", []byte("image bytes"), "image/jpeg")
		})

		When("extraction succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("passes the upload to the extractor", func() {
				Expect(extractor.calls).To(Equal(1))
				Expect(extractor.lastData).To(Equal([]byte("image bytes")))
				Expect(extractor.lastType).To(Equal("image/jpeg"))
			})

			It("returns the extracted result", func() {
				Expect(result.InvoiceDetails.InvoiceNumber).To(HaveValue(Equal("INV-7")))
			})

			It("persists the result under a derived name", func() {
				Expect(savedName).To(Equal("invoice_INV-7_20240320_143005.json"))
				loaded, loadErr := store.Load(savedName)
				Expect(loadErr).NotTo(HaveOccurred())
				Expect(loaded).To(Equal(result))
			})
		})

		When("the extraction service fails", func() {
			BeforeEach(func() {
				extractor.err = &extraction.ServiceError{Provider: "gemini", Err: fmt.Errorf("boom")}
			})

			It("returns the service error", func() {
				var serviceErr *extraction.ServiceError
				Expect(errors.As(err, &serviceErr)).To(BeTrue())
			})

			It("persists nothing", func() {
				results, listErr := store.List()
				Expect(listErr).NotTo(HaveOccurred())
				Expect(results).To(BeEmpty())
			})
		})

		When("the model output cannot be parsed", func() {
			BeforeEach(func() {
				extractor.err = &extraction.ParseError{Err: fmt.Errorf("invalid character")}
			})

			It("returns the parse error, distinguishable from a service error", func() {
				var parseErr *extraction.ParseError
				var serviceErr *extraction.ServiceError
				Expect(errors.As(err, &parseErr)).To(BeTrue())
				Expect(errors.As(err, &serviceErr)).To(BeFalse())
			})

			It("persists nothing", func() {
				results, listErr := store.List()
				Expect(listErr).NotTo(HaveOccurred())
				Expect(results).To(BeEmpty())
			})
		})
	})

	Describe("ListResults", func() {
		It("returns stored results", func() {
			_, _, err := service.ProcessInvoice("a.jpg", []byte("x"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			results, err := service.ListResults()
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})
	})

	Describe("LoadResult", func() {
		It("reloads a stored result", func() {
			result, savedName, err := service.ProcessInvoice("a.jpg", []byte("x"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			loaded, err := service.LoadResult(savedName)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(result))
		})

		It("surfaces a StorageError for a missing result", func() {
			_, err := service.LoadResult("missing.json")
			var storageErr *StorageError
			Expect(errors.As(err, &storageErr)).To(BeTrue())
		})
	})

	Describe("ResultFile", func() {
		It("returns the raw stored bytes", func() {
			_, savedName, err := service.ProcessInvoice("a.jpg", []byte("x"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			data, err := service.ResultFile(savedName)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("\"invoice_number\": \"INV-7\""))
		})
	})
})
