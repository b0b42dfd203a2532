// Package ticket renders printable e-tickets for bookings.
package ticket

import (
	"bytes"
	"fmt"

	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// Render produces a one-page A4 PDF for the booking: a QR code of the
// booking reference for gate scanning, followed by the screening and seat
// details.
func Render(detail *domain.BookingDetail) ([]byte, error) {
	png, err := qrcode.Encode(detail.Reference, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	imgName := fmt.Sprintf("qr_%s", detail.Reference)
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, imgOpts, bytes.NewReader(png))

	// QR centered on top, 80x80mm on a 210mm page.
	pdf.ImageOptions(imgName, (210.0-80.0)/2, 20, 80, 80, false, imgOpts, 0, "")
	pdf.SetY(108)

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(0, 12, detail.MovieTitle, "", 1, "C", false, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.4)
	pdf.Line(25, pdf.GetY()+2, 185, pdf.GetY()+2)
	pdf.Ln(8)

	writeRow := func(label, value string) {
		pdf.SetFont("Arial", "", 13)
		pdf.SetX(40)
		pdf.CellFormat(45, 9, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, value, "", 1, "L", false, 0, "")
	}

	writeRow("Theater", detail.Theater)
	writeRow("Date", detail.ShowtimeDate.Format("Monday, January 2, 2006"))
	writeRow("Time", detail.ShowtimeDate.Format("15:04"))
	writeRow("Seat", detail.SeatLabel)
	writeRow("Guest", detail.CustomerName)
	writeRow("Price", detail.Price.StringFixed(2))
	writeRow("Status", string(detail.Status))

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, fmt.Sprintf("Reference: %s", detail.Reference), "", 1, "C", false, 0, "")
	pdf.MultiCell(0, 6, "Present this ticket at the entrance. The QR code is scanned at the gate.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return buf.Bytes(), nil
}
