package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
	qrSize       = 28.0
)

// OrderQRInfo is the data encoded into the order sheet's QR code, so a scan
// on the plant floor identifies the job without network access.
type OrderQRInfo struct {
	OrderCode   string  `json:"order_code"`
	ProductName string  `json:"product"`
	ClientName  string  `json:"client"`
	Date        string  `json:"date"`
	GrossMeters float64 `json:"gross_meters"`
	TotalKg     float64 `json:"total_kg"`
}

// ExportOrderPDF generates a one-page production order sheet: header with a
// QR code, technical details, the calculation summary with its scrap
// breakdown, the material requirements table and the workflow stages.
func ExportOrderPDF(path string, order model.ProductionOrder) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	if err := renderHeader(pdf, order); err != nil {
		return err
	}
	y := marginTop + qrSize + 8
	y = renderTechnicalDetails(pdf, order, y)
	y = renderCalculationSummary(pdf, order, y)
	y = renderRequirementsTable(pdf, order, y)
	renderStages(pdf, order, y)

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentWidth, 4, "Generated by PCP Enigma - Production Planning", "", 0, "C", false, 0, "")

	return pdf.OutputFileAndClose(path)
}

// renderHeader draws the title block and the QR code in the top-right corner.
func renderHeader(pdf *fpdf.Fpdf, order model.ProductionOrder) error {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth-qrSize-5, 9, fmt.Sprintf("Production Order %s", order.OrderCode), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentWidth-qrSize-5, 6, fmt.Sprintf("Product: %s", order.ProductName), "", 1, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentWidth-qrSize-5, 6, fmt.Sprintf("Client: %s", order.ClientName), "", 1, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentWidth-qrSize-5, 6,
		fmt.Sprintf("Date: %s    Ordered: %g %s", order.Date, order.QuantityRequested, order.Unit),
		"", 1, "L", false, 0, "")

	info := OrderQRInfo{
		OrderCode:   order.OrderCode,
		ProductName: order.ProductName,
		ClientName:  order.ClientName,
		Date:        order.Date,
		GrossMeters: order.CalculationSnapshot.GrossLinearMeters,
		TotalKg:     order.CalculationSnapshot.TotalWeightKg,
	}
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal order QR info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + order.OrderCode
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+qrSize+4, pageWidth-marginRight, marginTop+qrSize+4)
	return nil
}

// sectionTitle draws a bold section heading and returns the next Y position.
func sectionTitle(pdf *fpdf.Fpdf, title string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, title, "", 0, "L", false, 0, "")
	return y + 9
}

// keyValueRows draws label/value pairs in two columns and returns the next Y.
func keyValueRows(pdf *fpdf.Fpdf, items [][2]string, y float64) float64 {
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(55, 5.5, item[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 5.5, item[1], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6
	}
	return y + 3
}

func renderTechnicalDetails(pdf *fpdf.Fpdf, order model.ProductionOrder, y float64) float64 {
	y = sectionTitle(pdf, "Technical Details", y)

	td := order.TechnicalDetails
	items := [][2]string{
		{"Format", string(td.Format)},
		{"Web Width", fmt.Sprintf("%.0f mm", td.WebWidthMm)},
		{"Cylinder", fmt.Sprintf("%.0f mm", td.CylinderMm)},
		{"Cutoff", fmt.Sprintf("%.0f mm", td.CutoffMm)},
		{"Tracks", fmt.Sprintf("%d", td.Tracks)},
	}
	if td.WindingDirection != "" {
		items = append(items, [2]string{"Winding", td.WindingDirection})
	}
	for i, layer := range td.Layers {
		items = append(items, [2]string{fmt.Sprintf("Layer %d", i+1), layer})
	}
	return keyValueRows(pdf, items, y)
}

func renderCalculationSummary(pdf *fpdf.Fpdf, order model.ProductionOrder, y float64) float64 {
	y = sectionTitle(pdf, "Calculation Summary", y)

	c := order.CalculationSnapshot
	items := [][2]string{
		{"Net Meters", fmt.Sprintf("%.0f m", c.NetLinearMeters)},
		{"Scrap (startup)", fmt.Sprintf("%.0f m", c.ScrapBreakdown.Startup)},
	}
	if c.ScrapBreakdown.Reprint > 0 {
		items = append(items, [2]string{"Scrap (reprint)", fmt.Sprintf("%.0f m", c.ScrapBreakdown.Reprint)})
	}
	if c.ScrapBreakdown.Lamination > 0 {
		items = append(items, [2]string{"Scrap (lamination)", fmt.Sprintf("%.0f m", c.ScrapBreakdown.Lamination)})
	}
	items = append(items,
		[2]string{"Scrap (variable)", fmt.Sprintf("%.0f m", c.ScrapBreakdown.Variable)},
		[2]string{"Gross Meters", fmt.Sprintf("%.0f m", c.GrossLinearMeters)},
		[2]string{"Max w/ Tolerance", fmt.Sprintf("%.0f m (%.0f%%)", c.MaxLinearMetersWithTolerance, order.TolerancePercent)},
		[2]string{"Total Weight", fmt.Sprintf("%.2f Kg", c.TotalWeightKg)},
	)
	return keyValueRows(pdf, items, y)
}

func renderRequirementsTable(pdf *fpdf.Fpdf, order model.ProductionOrder, y float64) float64 {
	y = sectionTitle(pdf, "Material Requirements", y)

	colWidths := []float64{48, 62, 28, 20, 22}
	headers := []string{"Layer", "Material", "Code", "Width", "Kg"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, req := range order.MaterialRequirements {
		name := req.MaterialName
		if req.IsSubstitute {
			name += " (SUB)"
		}
		rowData := []string{
			req.Layer,
			name,
			req.InternalCode,
			fmt.Sprintf("%.0f mm", req.WidthMm),
			fmt.Sprintf("%.2f", req.RequiredKg),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "L", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	return y + 6
}

func renderStages(pdf *fpdf.Fpdf, order model.ProductionOrder, y float64) {
	y = sectionTitle(pdf, "Workflow Stages", y)

	pdf.SetFont("Helvetica", "", 10)
	for i, stage := range order.RequiredStages {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(contentWidth-10, 5.5, fmt.Sprintf("%d. %s", i+1, stage), "", 0, "L", false, 0, "")
		y += 6
	}

	if order.Notes != "" {
		y += 4
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetXY(marginLeft, y)
		pdf.MultiCell(contentWidth, 4.5, "Notes: "+order.Notes, "", "L", false)
	}
}
