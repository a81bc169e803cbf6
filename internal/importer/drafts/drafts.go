// Package drafts parses recipient CSV exports into draft invoice params.
package drafts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NANDHINI7390/signify-invoice/internal/encoding"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

// Expected header columns, order-insensitive.
var requiredColumns = []string{
	"recipient_name", "recipient_email", "amount", "currency", "description", "invoice_date",
}

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]invoice.CreateParams, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding import file: %w", err)
	}

	cr := csv.NewReader(utf8r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var params []invoice.CreateParams

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		p, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		params = append(params, p)
	}

	return params, nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("missing column %q", want)
		}
	}

	return cols, nil
}

func parseRow(record []string, cols map[string]int) (invoice.CreateParams, error) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[idx])
	}

	amount, err := parseAmount(field("amount"))
	if err != nil {
		return invoice.CreateParams{}, fmt.Errorf("amount: %w", err)
	}

	date, err := parseDate(field("invoice_date"))
	if err != nil {
		return invoice.CreateParams{}, fmt.Errorf("invoice_date: %w", err)
	}

	return invoice.CreateParams{
		RecipientName:  field("recipient_name"),
		RecipientEmail: field("recipient_email"),
		Amount:         amount,
		Currency:       strings.ToUpper(field("currency")),
		Description:    field("description"),
		InvoiceDate:    date,
	}, nil
}

// parseAmount accepts both plain decimal form ("2500.00") and the
// European form with dot grouping and a decimal comma ("2.500,00").
func parseAmount(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") {
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	return decimal.NewFromString(s)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	return time.Parse("02/01/2006", s)
}
