package export

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

const pageBottom = 12.0

type pdfColumn struct {
	title string
	width float64
	cell  func(c models.Customer) string
}

var pdfColumns = []pdfColumn{
	{"ID", 12, func(c models.Customer) string { return fmt.Sprint(c.ID) }},
	{"Name", 45, func(c models.Customer) string { return c.FirstName + " " + c.LastName }},
	{"Email", 62, func(c models.Customer) string { return c.Email }},
	{"Company", 45, func(c models.Customer) string { return c.Company }},
	{"Status", 22, func(c models.Customer) string { return string(c.Status) }},
	{"Revenue", 30, func(c models.Customer) string { return fmt.Sprintf("%.2f", c.Revenue) }},
	{"Created", 28, func(c models.Customer) string { return c.DateCreated.UTC().Format(time.DateOnly) }},
}

// WriteCustomersPDF renders the customers as a landscape A4 table.
func WriteCustomersPDF(w io.Writer, customers []models.Customer, now time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Customers", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Customers")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Exported %s, %d records", now.UTC().Format("2006-01-02 15:04"), len(customers)))
	pdf.Ln(9)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()
	for _, c := range customers {
		if pdf.GetY()+6 > pageHeight-pageBottom {
			pdf.AddPage()
			header()
		}
		for _, col := range pdfColumns {
			align := "L"
			if col.title == "Revenue" {
				align = "R"
			}
			pdf.CellFormat(col.width, 6, tr(col.cell(c)), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func PDFFileName(now time.Time) string {
	return fmt.Sprintf("customers-export-%s.pdf", now.UTC().Format(time.DateOnly))
}
