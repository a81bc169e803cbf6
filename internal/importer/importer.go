package importer

import (
	"fmt"
	"io"

	"github.com/NANDHINI7390/signify-invoice/internal/importer/drafts"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

type Format string

const (
	FormatCSV Format = "csv"
)

type Importer interface {
	Parse(r io.Reader) ([]invoice.CreateParams, error)
}

type Service struct {
	csvImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter: drafts.New(),
	}
}

// Import parses an uploaded file into draft create params. The rows carry
// recipient and economics fields only; the caller stamps sender identity
// before creation.
func (s *Service) Import(format Format, r io.Reader) ([]invoice.CreateParams, error) {
	var imp Importer

	switch format {
	case FormatCSV:
		imp = s.csvImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return imp.Parse(r)
}
