// Package export renders the catalog and the stock ledger as CSV downloads.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"stockroom/internal/domain"
)

const (
	ProductsFileName = "inventory-export.csv"
	DateTimeLayout   = "2006-01-02 15:04:05"
)

var (
	productHeader     = []string{"Name", "Category", "Price", "Quantity", "Status", "Description"}
	transactionHeader = []string{"Date", "Product", "Type", "Quantity", "Previous Qty", "New Qty", "Notes"}
)

// TransactionsFileName names a ledger export taken on the given day.
func TransactionsFileName(day time.Time) string {
	return fmt.Sprintf("stock-transactions-%s.csv", day.UTC().Format("2006-01-02"))
}

// Products writes one row per product in catalog order.
func Products(w io.Writer, products []domain.Product) error {
	cw := newWriter(w)
	cw.write(productHeader)
	for _, p := range products {
		cw.write([]string{
			p.Name,
			p.Category,
			"$" + p.Price.StringFixed(2),
			strconv.Itoa(p.Quantity),
			string(p.Status()),
			p.Description,
		})
	}
	return cw.flush()
}

// Transactions writes one row per ledger entry in the order given.
func Transactions(w io.Writer, txs []domain.Transaction) error {
	cw := newWriter(w)
	cw.write(transactionHeader)
	for _, t := range txs {
		cw.write([]string{
			t.Date.UTC().Format(DateTimeLayout),
			t.ProductName,
			string(t.Type),
			strconv.Itoa(t.Quantity),
			strconv.Itoa(t.PreviousQuantity),
			strconv.Itoa(t.NewQuantity),
			t.Notes,
		})
	}
	return cw.flush()
}

// writer quotes every field, unlike encoding/csv which only quotes when a
// field needs it.
type writer struct {
	buf *bufio.Writer
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{buf: bufio.NewWriter(w)}
}

func (w *writer) write(record []string) {
	if w.err != nil {
		return
	}
	for i, field := range record {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.buf.WriteByte('"')
		w.buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		w.buf.WriteByte('"')
	}
	_, w.err = w.buf.WriteString("\n")
}

func (w *writer) flush() error {
	if w.err != nil {
		return fmt.Errorf("writing csv: %w", w.err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
