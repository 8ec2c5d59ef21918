package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

var CustomerHeaders = []string{
	"ID",
	"First Name",
	"Last Name",
	"Email",
	"Phone",
	"Company",
	"Position",
	"Status",
	"Revenue",
	"Street",
	"City",
	"State",
	"Zip Code",
	"Date Created",
	"Last Updated",
}

// CustomerRow flattens a customer in CustomerHeaders order.
func CustomerRow(c models.Customer) []string {
	return []string{
		strconv.Itoa(c.ID),
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
		c.Company,
		c.Position,
		string(c.Status),
		strconv.FormatFloat(c.Revenue, 'f', -1, 64),
		c.Address.Street,
		c.Address.City,
		c.Address.State,
		c.Address.ZipCode,
		c.DateCreated.UTC().Format(time.RFC3339),
		c.LastUpdated.UTC().Format(time.RFC3339),
	}
}

// formulaPrefixes start a formula in spreadsheet apps.
const formulaPrefixes = "=+-@\t\r"

// GuardFormula prefixes a quote to a text cell a spreadsheet would evaluate.
// Plain numbers such as a negative revenue are left alone.
func GuardFormula(cell string) string {
	if cell == "" || !strings.ContainsRune(formulaPrefixes, rune(cell[0])) {
		return cell
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		return cell
	}
	return "'" + cell
}

// UnguardFormula reverses GuardFormula so exported files import unchanged.
func UnguardFormula(cell string) string {
	if len(cell) > 1 && cell[0] == '\'' && strings.ContainsRune(formulaPrefixes, rune(cell[1])) {
		return cell[1:]
	}
	return cell
}

func quote(cell string) string {
	return `"` + strings.ReplaceAll(GuardFormula(cell), `"`, `""`) + `"`
}

// WriteCustomersCSV writes a bare header line followed by one line per
// customer with every cell quoted. Lines end in "\n".
func WriteCustomersCSV(w io.Writer, customers []models.Customer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(CustomerHeaders, ",")); err != nil {
		return err
	}
	for _, c := range customers {
		row := CustomerRow(c)
		for i := range row {
			row[i] = quote(row[i])
		}
		if _, err := bw.WriteString("\n" + strings.Join(row, ",")); err != nil {
			return fmt.Errorf("failed to write customer %d: %w", c.ID, err)
		}
	}
	return bw.Flush()
}

func CSVFileName(now time.Time) string {
	return fmt.Sprintf("customers-export-%s.csv", now.UTC().Format(time.DateOnly))
}
