package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
	"github.com/NANDHINI7390/signify-invoice/internal/signature"
)

func testInvoice() *invoice.Invoice {
	return &invoice.Invoice{
		ID:             uuid.MustParse("5cbd86a9-62a1-4e2b-9f07-0d6d77a1a001"),
		Number:         "INV-2026-0042",
		SenderID:       "user-1",
		SenderName:     "Acme Consulting",
		SenderEmail:    "billing@acme.test",
		RecipientName:  "Jane Doe",
		RecipientEmail: "jane@example.test",
		Amount:         decimal.RequireFromString("2500.00"),
		Currency:       "USD",
		Description:    "Consulting services for March.",
		InvoiceDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:         invoice.StatusPending,
		CreatedAt:      time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
	}
}

func signedInvoice(t *testing.T, kind invoice.SignatureKind) *invoice.Invoice {
	t.Helper()

	inv := testInvoice()
	inv.Status = invoice.StatusSigned

	signedAt := time.Date(2026, 3, 20, 14, 45, 0, 0, time.UTC)
	inv.SignedAt = &signedAt

	switch kind {
	case invoice.SignatureDrawn:
		pad, err := signature.NewPad(300, 150, 1)
		require.NoError(t, err)

		pad.BeginStroke(40, 80)
		pad.ExtendStroke(120, 40)
		pad.ExtendStroke(200, 90)
		_, err = pad.EndStroke()
		require.NoError(t, err)

		art, err := pad.Artifact()
		require.NoError(t, err)

		inv.Signature = &invoice.Signature{Kind: invoice.SignatureDrawn, Payload: art.Payload}
	default:
		inv.Signature = &invoice.Signature{Kind: invoice.SignatureTyped, Payload: []byte("Jane Doe")}
	}

	return inv
}

// nLines builds a description that wraps into exactly n layout lines.
func nLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("Work item %d", i+1)
	}

	return strings.Join(lines, "\n")
}

func blockFor(t *testing.T, doc *Document, name string) Block {
	t.Helper()

	for _, b := range doc.Blocks {
		if b.Name == name {
			return b
		}
	}

	t.Fatalf("no %q block in %v", name, doc.Blocks)

	return Block{}
}

func TestCompose_Deterministic(t *testing.T) {
	inv := signedInvoice(t, invoice.SignatureDrawn)

	first, err := Compose(inv)
	require.NoError(t, err)

	second, err := Compose(inv)
	require.NoError(t, err)

	assert.Equal(t, first.PDF, second.PDF)
	assert.Equal(t, first.Blocks, second.Blocks)
	assert.Equal(t, first.Pages, second.Pages)
}

func TestCompose_SectionOrder(t *testing.T) {
	doc, err := Compose(testInvoice())
	require.NoError(t, err)

	require.Equal(t, 1, doc.Pages)

	want := []string{"title", "meta", "parties", "description", "total"}
	names := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		names = append(names, b.Name)
	}
	assert.Equal(t, want, names)

	// Sections below the title descend monotonically on the page.
	for i := 1; i < len(doc.Blocks); i++ {
		assert.Greater(t, doc.Blocks[i].Y, doc.Blocks[i-1].Y,
			"%s must sit below %s", doc.Blocks[i].Name, doc.Blocks[i-1].Name)
	}
}

func TestCompose_SignatureBlockPresentWhenSigned(t *testing.T) {
	for _, kind := range []invoice.SignatureKind{invoice.SignatureDrawn, invoice.SignatureTyped} {
		t.Run(string(kind), func(t *testing.T) {
			doc, err := Compose(signedInvoice(t, kind))
			require.NoError(t, err)

			sig := blockFor(t, doc, "signature")
			assert.Equal(t, 1, sig.Page)
		})
	}
}

func TestCompose_SignatureBlockNeverSplits(t *testing.T) {
	// With a typed signature the block needs 31mm. The description starts
	// at y=74; 28 lines leave too little room before the bottom margin, so
	// the whole block moves to page two while the description stays put.
	inv := signedInvoice(t, invoice.SignatureTyped)
	inv.Description = nLines(28)

	doc, err := Compose(inv)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Pages)
	assert.Equal(t, 1, blockFor(t, doc, "description").Page)

	sig := blockFor(t, doc, "signature")
	assert.Equal(t, 2, sig.Page)
	assert.Equal(t, marginTop, sig.Y)

	// A short description keeps everything on one page.
	inv.Description = nLines(10)
	doc, err = Compose(inv)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Pages)
	assert.Equal(t, 1, blockFor(t, doc, "signature").Page)
}

func TestCompose_TotalPinnedToFinalPageBottom(t *testing.T) {
	inv := signedInvoice(t, invoice.SignatureTyped)
	inv.Description = nLines(28)

	doc, err := Compose(inv)
	require.NoError(t, err)

	total := blockFor(t, doc, "total")
	assert.Equal(t, doc.Pages, total.Page)
	assert.Equal(t, pageHeight-totalBottomOffset, total.Y)
}

func TestCompose_GarbageDrawnPayloadFailsAtomically(t *testing.T) {
	inv := signedInvoice(t, invoice.SignatureDrawn)
	inv.Signature.Payload = []byte("not a png")

	doc, err := Compose(inv)
	require.Error(t, err)
	assert.Nil(t, doc)

	var cerr *CompositionError
	assert.ErrorAs(t, err, &cerr)
}

func TestFilename(t *testing.T) {
	inv := testInvoice()
	assert.Equal(t, "invoice.pdf", Filename(inv))

	inv.Status = invoice.StatusSigned
	assert.Equal(t, "signed_invoice_INV-2026-0042.pdf", Filename(inv))
}

func TestFormatTotal(t *testing.T) {
	type testCase struct {
		name     string
		amount   string
		currency string
		want     string
	}

	tests := []testCase{
		{name: "GroupedUSD", amount: "2500.00", currency: "USD", want: "$2,500.00"},
		{name: "Euro", amount: "1234.5", currency: "EUR", want: "€1,234.50"},
		{name: "Rupee", amount: "99", currency: "INR", want: "₹99.00"},
		{name: "Million", amount: "1000000", currency: "USD", want: "$1,000,000.00"},
		{name: "UnknownCode", amount: "2500", currency: "XXX", want: "XXX 2,500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTotal(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}
