package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/cart"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

const timeLayout = "02/01/2006 15:04"

var (
	okMark    = color.New(color.FgGreen).Sprint("✓")
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

func statusLabel(s sale.Status) string {
	switch s {
	case sale.StatusCompleted:
		return color.New(color.FgGreen).Sprint(string(s))
	case sale.StatusCancelled:
		return color.New(color.FgRed).Sprint(string(s))
	default:
		return string(s)
	}
}

func renderProducts(w io.Writer, products []catalog.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tBRAND\tPRICE\tSTOCK\tID")
	for _, p := range products {
		name := p.Name
		if !p.Available {
			name = dimColor.Sprint(name + " (unavailable)")
		}
		stock := strconv.Itoa(p.Stock)
		if p.Stock <= p.MinStock {
			stock = warnColor.Sprint(stock)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			orDash(p.Code), name, orDash(p.Brand), sale.FormatBRL(p.SalePrice), stock, p.ID)
	}
	return tw.Flush()
}

func renderServices(w io.Writer, services []catalog.Service) error {
	if len(services) == 0 {
		_, err := fmt.Fprintln(w, "No services found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tDURATION")
	for _, s := range services {
		name := s.Name
		if !s.Active {
			name = dimColor.Sprint(name + " (inactive)")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d min\n",
			s.ID, name, orDash(s.Category), sale.FormatBRL(s.Price), s.DurationMin)
	}
	return tw.Flush()
}

// renderPage prints one listing page with 1-based row numbers. The row
// whose action menu is open is followed by its actions.
func renderPage(w io.Writer, page *sale.Page, openRow string) error {
	if page == nil || page.Empty {
		_, err := fmt.Fprintln(w, "No sales found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tDATE\tTOTAL\tDISCOUNT\tPAYMENT\tSTATUS")
	for i, r := range page.Content {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, r.ShortID(), r.SoldAt.Local().Format(timeLayout),
			sale.FormatBRL(r.Total), sale.FormatBRL(r.Discount),
			r.PaymentMethod.Label(), statusLabel(r.Status))
		if r.ID == openRow {
			actions := "receipt"
			if !r.Cancelled() {
				actions += " | cancel"
			}
			fmt.Fprintf(tw, "\t%s\t\t\t\t\t\n", dimColor.Sprint("└ "+actions))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d of %d (%d sales)\n", page.Number+1, max(page.TotalPages, 1), page.TotalElements)
	return err
}

func renderReceipt(w io.Writer, r *sale.Receipt) error {
	fmt.Fprintf(w, "Receipt %s\n", r.SaleID)
	fmt.Fprintf(w, "Date:    %s\n", r.IssuedAt.Local().Format(timeLayout))
	fmt.Fprintf(w, "Status:  %s\n", statusLabel(r.Status))
	fmt.Fprintf(w, "Payment: %s\n\n", r.PaymentMethod.Label())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tTYPE\tQTY\tUNIT\tSUBTOTAL")
	for _, it := range r.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			it.Name, it.Type, it.Quantity, sale.FormatBRL(it.UnitPrice), sale.FormatBRL(it.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nGross:    %s\n", sale.FormatBRL(r.Gross))
	fmt.Fprintf(w, "Discount: %s\n", sale.FormatBRL(r.Discount))
	fmt.Fprintf(w, "Total:    %s\n", sale.FormatBRL(r.Net))
	if r.Notes != "" {
		fmt.Fprintf(w, "Notes:    %s\n", r.Notes)
	}
	return nil
}

func renderCart(w io.Writer, lines []cart.LineItem, t cart.Totals) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tTYPE\tQTY\tPRICE")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.Name, l.Kind(), l.Quantity, sale.FormatBRL(l.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Subtotal: %s\n", sale.FormatBRL(t.Subtotal))
	fmt.Fprintf(w, "Discount: %s\n", sale.FormatBRL(t.Discount))
	_, err := fmt.Fprintf(w, "Total:    %s\n", sale.FormatBRL(t.Total))
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
