package cli

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/JamersonCarlos/beauty-salon-web/internal/checkout"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
	"github.com/JamersonCarlos/beauty-salon-web/internal/salelist"
)

func salesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sales",
		Aliases: []string{"vendas"},
		Short:   "Record, list and cancel sales",
	}
	cmd.AddCommand(
		salesListCmd(e),
		salesBrowseCmd(e),
		salesReceiptCmd(e),
		salesCancelCmd(e),
		salesNewCmd(e),
	)
	return cmd
}

func addFormFlags(cmd *cobra.Command, f *salelist.Form) {
	cmd.Flags().StringVar(&f.Start, "start", "", "First sale date, yyyy-mm-dd")
	cmd.Flags().StringVar(&f.End, "end", "", "Last sale date, yyyy-mm-dd (inclusive)")
	cmd.Flags().StringVar(&f.Min, "min", "", "Minimum total")
	cmd.Flags().StringVar(&f.Max, "max", "", "Maximum total")
	cmd.Flags().StringVar(&f.Status, "status", "", "CONCLUIDA or CANCELADA")
}

func salesListCmd(e *env) *cobra.Command {
	var (
		form salelist.Form
		page int
		size int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the sales history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 1 {
				return errors.Errorf("page must be at least 1, got %d", page)
			}
			f, err := form.Filter(page-1, size)
			if err != nil {
				return err
			}
			res, err := e.sales.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			return renderPage(e.Out, res, "")
		},
	}
	addFormFlags(cmd, &form)
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", sale.DefaultPageSize, "Page size")
	return cmd
}

func salesReceiptCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt ID",
		Short: "Print the receipt of a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := e.sales.Receipt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderReceipt(e.Out, r)
		},
	}
}

func salesCancelCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a concluded sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := e.sales.Receipt(ctx, args[0])
			if err != nil {
				return err
			}
			rec := r.Record()
			if rec.Cancelled() {
				return sale.ErrAlreadyCancelled
			}
			if !yes {
				ok, err := e.confirm(fmt.Sprintf("Cancel sale %s of %s?", rec.ShortID(), sale.FormatBRL(rec.Total)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(e.Out, "Aborted.")
					return nil
				}
			}
			if err := e.sales.Cancel(ctx, rec); err != nil {
				return err
			}
			fmt.Fprintf(e.Out, "%s Sale %s cancelled\n", okMark, rec.ShortID())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func salesNewCmd(e *env) *cobra.Command {
	var (
		items    []string
		discount string
		payment  string
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Record a sale",
		Long: `Record a sale from catalog items.

Each --item is KIND:REF where KIND is service or product. REF is the service
id, or the product lookup code or id.`,
		Example: "  salonctl sales new --item service:3 --item product:SH-001 --discount 5 --payment pix",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			method, err := sale.ParsePaymentMethod(payment)
			if err != nil {
				return err
			}

			s, err := checkout.Open(ctx, e.client, e.sales, checkout.WithLogger(e.Logger.Named("checkout")))
			if err != nil {
				return err
			}
			for _, spec := range items {
				if err := addItem(s, spec); err != nil {
					return err
				}
			}
			s.SetDiscount(discount)
			s.SetPaymentMethod(method)
			s.SetNotes(notes)

			if err := renderCart(e.Out, s.Lines(), s.Totals()); err != nil {
				return err
			}
			rec, err := s.Submit(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.Out, "%s Sale %s recorded: %s via %s\n",
				okMark, rec.ID, sale.FormatBRL(rec.Total), rec.PaymentMethod.Label())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "Item as KIND:REF, repeatable")
	cmd.Flags().StringVarP(&discount, "discount", "d", "", "Discount amount")
	cmd.Flags().StringVar(&payment, "payment", "", "pix, cash, credit, debit or deferred")
	cmd.Flags().StringVar(&notes, "notes", "", "Observations printed on the receipt")
	return cmd
}

// addItem resolves one KIND:REF argument and adds it to the cart.
func addItem(s *checkout.Session, spec string) error {
	kindText, ref, ok := strings.Cut(spec, ":")
	if !ok || ref == "" {
		return errors.Errorf("item %q: want KIND:REF", spec)
	}
	kind, err := catalog.ParseKind(kindText)
	if err != nil {
		return errors.Wrapf(err, "item %q", spec)
	}
	s.SetKind(kind)
	if !s.EnterToken(ref) {
		return errors.Errorf("item %q: not in catalog", spec)
	}
	if _, ok := s.AddSelected(); !ok {
		return errors.Errorf("item %q: not in catalog", spec)
	}
	return nil
}
