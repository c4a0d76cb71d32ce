package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
	"github.com/JamersonCarlos/beauty-salon-web/internal/salelist"
)

const browseHelp = `Commands:
  n, next              next page
  p, prev              previous page
  s, search            query the first page with the current filters
  f KEY=VALUE...       set filters (start, end, min, max, status); VALUE may be empty
  c, clear             clear filters and search
  m N                  toggle the action menu of row N
  r N                  show the receipt of row N
  x N                  cancel the sale of row N
  h, help              this text
  q, quit              leave`

func salesBrowseCmd(e *env) *cobra.Command {
	var (
		form salelist.Form
		size int
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the sales history interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := salelist.New(e.sales,
				salelist.WithLogger(e.Logger.Named("salelist")),
				salelist.WithPageSize(size),
			)
			v.SetForm(form)
			b := &browser{env: e, view: v}
			return b.run(cmd.Context())
		},
	}
	addFormFlags(cmd, &form)
	cmd.Flags().IntVar(&size, "size", sale.DefaultPageSize, "Page size")
	return cmd
}

type browser struct {
	*env
	view *salelist.View
}

func (b *browser) run(ctx context.Context) error {
	b.show(b.view.Search(ctx))
	for {
		line, err := b.prompt("sales> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := b.exec(ctx, line)
		if err != nil {
			fmt.Fprintln(b.Out, errColor.Sprint("error: ", err))
		}
		if quit {
			return nil
		}
	}
}

// exec runs one REPL line.
func (b *browser) exec(ctx context.Context, line string) (quit bool, _ error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(b.Out, browseHelp)
	case "n", "next":
		if !b.view.CanNext() {
			fmt.Fprintln(b.Out, "Already on the last page.")
			return false, nil
		}
		b.show(b.view.Next(ctx))
	case "p", "prev":
		if !b.view.CanPrev() {
			fmt.Fprintln(b.Out, "Already on the first page.")
			return false, nil
		}
		b.show(b.view.Prev(ctx))
	case "s", "search":
		b.show(b.view.Search(ctx))
	case "c", "clear":
		b.show(b.view.Clear(ctx))
	case "f", "filter":
		form, err := applyFilters(b.view.Form(), args)
		if err != nil {
			return false, err
		}
		b.view.SetForm(form)
		fmt.Fprintln(b.Out, "Filters updated. Type `s` to search.")
	case "m", "menu":
		rec, err := b.row(args)
		if err != nil {
			return false, err
		}
		b.view.Menu().Toggle(rec.ID)
		b.render()
	case "r", "receipt":
		rec, err := b.row(args)
		if err != nil {
			return false, err
		}
		r, err := b.view.OpenReceipt(ctx, rec.ID)
		if err != nil {
			return false, err
		}
		defer b.view.CloseReceipt()
		return false, renderReceipt(b.Out, r)
	case "x", "cancel":
		rec, err := b.row(args)
		if err != nil {
			return false, err
		}
		if rec.Cancelled() {
			return false, sale.ErrAlreadyCancelled
		}
		ok, err := b.confirm(fmt.Sprintf("Cancel sale %s of %s?", rec.ShortID(), sale.FormatBRL(rec.Total)))
		if err != nil || !ok {
			b.view.Menu().Blur()
			return false, err
		}
		b.show(b.view.Cancel(ctx, rec))
	default:
		return false, errors.Errorf("unknown command %q, type h for help", cmd)
	}
	return false, nil
}

// row resolves a 1-based row number on the current page.
func (b *browser) row(args []string) (sale.Record, error) {
	if len(args) != 1 {
		return sale.Record{}, errors.New("want a row number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return sale.Record{}, errors.Errorf("bad row number %q", args[0])
	}
	page := b.view.Result()
	if page == nil || n < 1 || n > len(page.Content) {
		return sale.Record{}, errors.Errorf("no row %d on this page", n)
	}
	return page.Content[n-1], nil
}

func (b *browser) show(_ *sale.Page, err error) {
	if errors.Is(err, salelist.ErrSuperseded) {
		return
	}
	if err != nil {
		fmt.Fprintln(b.Out, errColor.Sprint("error: ", err))
		return
	}
	b.render()
}

func (b *browser) render() {
	open, _ := b.view.Menu().OpenRow()
	if err := renderPage(b.Out, b.view.Result(), open); err != nil {
		fmt.Fprintln(b.Out, errColor.Sprint("error: ", err))
	}
}

// applyFilters sets form fields from KEY=VALUE arguments.
func applyFilters(f salelist.Form, args []string) (salelist.Form, error) {
	if len(args) == 0 {
		return f, errors.New("want KEY=VALUE")
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return f, errors.Errorf("bad filter %q, want KEY=VALUE", arg)
		}
		switch strings.ToLower(key) {
		case "start":
			f.Start = value
		case "end":
			f.End = value
		case "min":
			f.Min = value
		case "max":
			f.Max = value
		case "status":
			f.Status = value
		default:
			return f, errors.Errorf("unknown filter %q", key)
		}
	}
	return f, nil
}
