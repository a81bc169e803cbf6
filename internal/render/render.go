// Package render lays an invoice out into a fixed-size, paginated PDF.
// The same record always yields the same layout coordinates and page
// count; block offsets are returned alongside the bytes so callers can
// verify that.
package render

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

// A4 in millimeters, fixed margins.
const (
	pageWidth  = 210.0
	pageHeight = 297.0

	marginLeft   = 20.0
	marginRight  = 20.0
	marginTop    = 20.0
	marginBottom = 25.0

	contentWidth = pageWidth - marginLeft - marginRight

	lineHeight = 6.0
	ruleGap    = 4.0

	sigBoxWidth  = 60.0
	sigBoxHeight = 25.0
	typedSigSize = 12.0

	// The total is pinned relative to the page bottom, independent of the
	// cursor.
	totalBottomOffset = 15.0

	// Drawn payloads wider than this are downscaled before embedding.
	maxSigPixels = 600
)

// CompositionError signals an atomic rendering failure; no partial output
// is valid when one is returned. Safe to retry.
type CompositionError struct {
	Err error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("composition failed: %v", e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// Block records where a layout section landed.
type Block struct {
	Name string
	Page int
	Y    float64
}

// Document is a composed invoice.
type Document struct {
	PDF      []byte
	Filename string
	Pages    int
	Blocks   []Block
}

type composer struct {
	pdf    *gofpdf.Fpdf
	y      float64
	blocks []Block
}

// Compose renders the record, with its signature when present, into a
// paginated PDF.
func Compose(inv *invoice.Invoice) (*Document, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pin the embedded creation date so identical input yields identical
	// bytes, not just identical coordinates.
	pdf.SetCreationDate(inv.CreatedAt.UTC())
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	c := &composer{pdf: pdf, y: marginTop}

	c.title()
	c.metaLine(inv)
	c.rule()
	c.parties(inv)
	c.rule()
	c.description(inv)
	c.rule()

	if inv.Status == invoice.StatusSigned && inv.Signature != nil {
		if err := c.signatureBlock(inv); err != nil {
			return nil, &CompositionError{Err: err}
		}
	}

	c.total(inv)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &CompositionError{Err: err}
	}

	return &Document{
		PDF:      buf.Bytes(),
		Filename: Filename(inv),
		Pages:    pdf.PageCount(),
		Blocks:   c.blocks,
	}, nil
}

// Filename follows the signed_invoice_<number> convention for signed
// records and a generic document name otherwise.
func Filename(inv *invoice.Invoice) string {
	if inv.Status == invoice.StatusSigned {
		return fmt.Sprintf("signed_invoice_%s.pdf", inv.Number)
	}

	return "invoice.pdf"
}

var totalPrinter = message.NewPrinter(language.English)

// FormatTotal renders an amount as <symbol><grouped, 2 decimals>. Codes
// outside the supported set fall back to the literal code.
func FormatTotal(amount decimal.Decimal, currency string) string {
	f, _ := amount.Float64()
	n := number.Decimal(f, number.Scale(2))

	if sym, ok := invoice.CurrencySymbol(currency); ok {
		return totalPrinter.Sprintf("%s%v", sym, n)
	}

	return totalPrinter.Sprintf("%s %v", currency, n)
}

func (c *composer) mark(name string) {
	c.blocks = append(c.blocks, Block{Name: name, Page: c.pdf.PageNo(), Y: c.y})
}

func (c *composer) rule() {
	c.pdf.SetDrawColor(180, 180, 180)
	c.pdf.SetLineWidth(0.3)
	c.pdf.Line(marginLeft, c.y, pageWidth-marginRight, c.y)
	c.y += ruleGap
}

func (c *composer) title() {
	c.mark("title")
	c.pdf.SetFont("Helvetica", "B", 22)
	c.pdf.SetXY(marginLeft, c.y)
	c.pdf.CellFormat(contentWidth, 10, "INVOICE", "", 0, "L", false, 0, "")
	c.y += 10 + ruleGap
}

// metaLine places the invoice number left-aligned and the date
// right-aligned by its measured width on the same line.
func (c *composer) metaLine(inv *invoice.Invoice) {
	c.mark("meta")
	c.pdf.SetFont("Helvetica", "", 11)

	c.pdf.SetXY(marginLeft, c.y)
	c.pdf.CellFormat(contentWidth/2, lineHeight, inv.Number, "", 0, "L", false, 0, "")

	dateStr := inv.InvoiceDate.Format("January 2, 2006")
	dw := c.pdf.GetStringWidth(dateStr)
	c.pdf.SetXY(pageWidth-marginRight-dw, c.y)
	c.pdf.CellFormat(dw, lineHeight, dateStr, "", 0, "L", false, 0, "")

	c.y += lineHeight + ruleGap
}

// parties renders the sender block in the left column and the recipient
// block in the right column at the same vertical offset.
func (c *composer) parties(inv *invoice.Invoice) {
	c.mark("parties")

	sender := []string{"From", inv.SenderName, inv.SenderEmail}
	if inv.SenderAddress != "" {
		sender = append(sender, inv.SenderAddress)
	}

	if inv.SenderPhone != "" {
		sender = append(sender, inv.SenderPhone)
	}

	recipient := []string{"Bill To", inv.RecipientName, inv.RecipientEmail}

	colX := marginLeft + contentWidth/2

	rows := max(len(sender), len(recipient))
	for i := 0; i < rows; i++ {
		if i == 0 {
			c.pdf.SetFont("Helvetica", "B", 10)
		} else {
			c.pdf.SetFont("Helvetica", "", 10)
		}

		lineY := c.y + float64(i)*lineHeight

		if i < len(sender) {
			c.pdf.SetXY(marginLeft, lineY)
			c.pdf.CellFormat(contentWidth/2, lineHeight, sender[i], "", 0, "L", false, 0, "")
		}

		if i < len(recipient) {
			c.pdf.SetXY(colX, lineY)
			c.pdf.CellFormat(contentWidth/2, lineHeight, recipient[i], "", 0, "L", false, 0, "")
		}
	}

	c.y += float64(rows)*lineHeight + ruleGap
}

// description word-wraps to the content width and advances the cursor by
// the wrapped line count, breaking to a new page when a line would cross
// the bottom margin.
func (c *composer) description(inv *invoice.Invoice) {
	c.mark("description")
	c.pdf.SetFont("Helvetica", "", 11)

	for _, line := range c.pdf.SplitText(inv.Description, contentWidth) {
		if c.y+lineHeight > pageHeight-marginBottom {
			c.newPage()
		}

		c.pdf.SetXY(marginLeft, c.y)
		c.pdf.CellFormat(contentWidth, lineHeight, line, "", 0, "L", false, 0, "")
		c.y += lineHeight
	}

	c.y += ruleGap
}

// signatureBlockHeight is the vertical room the whole block needs: name
// line, timestamp line, artifact, and the underline rule.
func signatureBlockHeight(sig *invoice.Signature) float64 {
	artifactH := sigBoxHeight
	if sig.Kind == invoice.SignatureTyped {
		artifactH = typedSigSize
	}

	return 2*lineHeight + 2 + artifactH + 3 + 2
}

// signatureBlock renders the acknowledgment. The block is never split
// across pages: when it would cross the bottom margin, a new page is
// started first.
func (c *composer) signatureBlock(inv *invoice.Invoice) error {
	if c.y+signatureBlockHeight(inv.Signature) > pageHeight-marginBottom {
		c.newPage()
	}

	c.mark("signature")

	c.pdf.SetFont("Helvetica", "B", 11)
	c.pdf.SetXY(marginLeft, c.y)
	c.pdf.CellFormat(contentWidth, lineHeight, "Acknowledged by "+inv.RecipientName, "", 0, "L", false, 0, "")
	c.y += lineHeight

	c.pdf.SetFont("Helvetica", "", 9)
	c.pdf.SetXY(marginLeft, c.y)
	ts := "Signed on " + inv.SignedAt.Format("January 2, 2006 at 3:04 PM")
	c.pdf.CellFormat(contentWidth, lineHeight, ts, "", 0, "L", false, 0, "")
	c.y += lineHeight + 2

	switch inv.Signature.Kind {
	case invoice.SignatureDrawn:
		if err := c.drawnArtifact(inv); err != nil {
			return err
		}

		c.y += sigBoxHeight + 3
	default:
		c.pdf.SetFont("Helvetica", "I", 18)
		c.pdf.SetXY(marginLeft, c.y)
		c.pdf.CellFormat(contentWidth, typedSigSize, string(inv.Signature.Payload), "", 0, "L", false, 0, "")
		c.y += typedSigSize + 3
	}

	c.pdf.SetDrawColor(60, 60, 60)
	c.pdf.SetLineWidth(0.4)
	c.pdf.Line(marginLeft, c.y, marginLeft+sigBoxWidth+20, c.y)
	c.y += 2

	return nil
}

// drawnArtifact embeds the stroke bitmap positioned and scaled into a
// fixed box, preserving its aspect ratio. Oversized payloads are
// downscaled before embedding.
func (c *composer) drawnArtifact(inv *invoice.Invoice) error {
	img, err := imaging.Decode(bytes.NewReader(inv.Signature.Payload))
	if err != nil {
		return fmt.Errorf("decoding signature image: %w", err)
	}

	if img.Bounds().Dx() > maxSigPixels {
		img = imaging.Fit(img, maxSigPixels, maxSigPixels/2, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("encoding signature image: %w", err)
	}

	name := "signature-" + inv.Number
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	c.pdf.RegisterImageOptionsReader(name, opts, &buf)

	iw := float64(img.Bounds().Dx())
	ih := float64(img.Bounds().Dy())

	w := sigBoxWidth
	h := w * ih / iw

	if h > sigBoxHeight {
		h = sigBoxHeight
		w = h * iw / ih
	}

	c.pdf.ImageOptions(name, marginLeft, c.y, w, h, false, opts, 0, "")

	return nil
}

// total is pinned to the bottom-right of the final page, computed from the
// page height rather than the cursor.
func (c *composer) total(inv *invoice.Invoice) {
	totalY := pageHeight - totalBottomOffset
	c.blocks = append(c.blocks, Block{Name: "total", Page: c.pdf.PageNo(), Y: totalY})

	c.pdf.SetFont("Helvetica", "B", 13)
	str := FormatTotal(inv.Amount, inv.Currency)
	w := c.pdf.GetStringWidth(str)
	c.pdf.SetXY(pageWidth-marginRight-w, totalY-lineHeight)
	c.pdf.CellFormat(w, lineHeight, str, "", 0, "L", false, 0, "")
}

func (c *composer) newPage() {
	c.pdf.AddPage()
	c.y = marginTop
}
