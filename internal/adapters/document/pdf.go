package document

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/signintech/gopdf"

	"checkintracker/internal/domain"
)

const fontFamily = "certificate"

// A4 landscape, in points.
var pageSize = gopdf.Rect{W: 841.89, H: 595.28}

// CertificateFilename is the attachment and download name for a ticket's certificate.
func CertificateFilename(code string) string {
	return "certificate-" + code + ".pdf"
}

// PDFRenderer draws participation certificates with gopdf.
type PDFRenderer struct {
	font      []byte
	eventName string
	qr        domain.QRRenderer
}

// NewPDFRenderer loads the TTF font at fontPath. gopdf cannot draw text without one.
func NewPDFRenderer(fontPath, eventName string, qr domain.QRRenderer) (*PDFRenderer, error) {
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("load certificate font: %w", err)
	}
	return &PDFRenderer{font: font, eventName: eventName, qr: qr}, nil
}

func (r *PDFRenderer) Render(ticket *domain.Ticket, cert *domain.Certificate) (*domain.CertificateDocument, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: pageSize})
	pdf.AddPage()

	if err := pdf.AddTTFFontData(fontFamily, r.font); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	drawBorder(pdf)

	lines := []struct {
		text string
		size float64
		y    float64
	}{
		{"CERTIFICATE OF PARTICIPATION", 30, 110},
		{"This certifies that", 14, 180},
		{strings.ToUpper(ticket.Name), 26, 215},
		{participationLine(r.eventName, cert.ParticipationHours), 14, 275},
		{"Issued on " + cert.GeneratedAt.UTC().Format("January 2, 2006"), 12, 320},
	}
	for _, l := range lines {
		if err := centered(pdf, l.text, l.size, l.y); err != nil {
			return nil, err
		}
	}

	if r.qr != nil {
		if err := r.drawQR(pdf, ticket.UniqueCode); err != nil {
			return nil, err
		}
	}
	if err := pdf.SetFont(fontFamily, "", 10); err != nil {
		return nil, fmt.Errorf("failed to set font: %w", err)
	}
	pdf.SetXY(60, pageSize.H-70)
	if err := pdf.Cell(nil, "Ticket "+ticket.UniqueCode+"  |  Certificate "+cert.ID); err != nil {
		return nil, fmt.Errorf("failed to write footer: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return &domain.CertificateDocument{
		Filename:    CertificateFilename(ticket.UniqueCode),
		ContentType: "application/pdf",
		Content:     buf.Bytes(),
	}, nil
}

func participationLine(eventName string, hours float64) string {
	h := strconv.FormatFloat(hours, 'f', 2, 64)
	if eventName == "" {
		return "attended the event for " + h + " hours."
	}
	return "attended " + eventName + " for " + h + " hours."
}

func drawBorder(pdf *gopdf.GoPdf) {
	pdf.SetStrokeColor(40, 70, 120)
	pdf.SetLineWidth(3)
	margin := 30.0
	pdf.Line(margin, margin, pageSize.W-margin, margin)
	pdf.Line(pageSize.W-margin, margin, pageSize.W-margin, pageSize.H-margin)
	pdf.Line(pageSize.W-margin, pageSize.H-margin, margin, pageSize.H-margin)
	pdf.Line(margin, pageSize.H-margin, margin, margin)
}

func centered(pdf *gopdf.GoPdf, text string, size, y float64) error {
	if err := pdf.SetFont(fontFamily, "", size); err != nil {
		return fmt.Errorf("failed to set font: %w", err)
	}
	pdf.SetXY(0, y)
	rect := &gopdf.Rect{W: pageSize.W, H: size + 6}
	if err := pdf.CellWithOption(rect, text, gopdf.CellOption{Align: gopdf.Center | gopdf.Middle}); err != nil {
		return fmt.Errorf("failed to write %q: %w", text, err)
	}
	return nil
}

func (r *PDFRenderer) drawQR(pdf *gopdf.GoPdf, code string) error {
	raw, err := r.qr.PNG(code, 200)
	if err != nil {
		return err
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode qr: %w", err)
	}
	const side = 90.0
	rect := &gopdf.Rect{W: side, H: side}
	if err := pdf.ImageFrom(img, pageSize.W-60-side, pageSize.H-60-side, rect); err != nil {
		return fmt.Errorf("failed to draw QR code: %w", err)
	}
	return nil
}
