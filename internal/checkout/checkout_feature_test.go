package checkout

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/cart"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

type checkoutFeature struct {
	snapshot *catalog.Snapshot
	svc      *mockSubmitter
	session  *Session
	err      error
}

func (f *checkoutFeature) reset() {
	f.snapshot = &catalog.Snapshot{}
	f.svc = &mockSubmitter{}
	f.session = nil
	f.err = nil
}

func (f *checkoutFeature) theCatalogHasTheseServices(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		id, err := strconv.ParseInt(row.Cells[0].Value, 10, 64)
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(row.Cells[2].Value)
		if err != nil {
			return err
		}
		f.snapshot.Services = append(f.snapshot.Services, catalog.Service{ID: id, Name: row.Cells[1].Value, Price: price, Active: true})
	}
	return nil
}

func (f *checkoutFeature) theCatalogHasTheseProducts(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		price, err := decimal.NewFromString(row.Cells[3].Value)
		if err != nil {
			return err
		}
		f.snapshot.Products = append(f.snapshot.Products, catalog.Product{
			ID:        row.Cells[0].Value,
			Code:      row.Cells[1].Value,
			Name:      row.Cells[2].Value,
			SalePrice: price,
			Available: true,
		})
	}
	return nil
}

func (f *checkoutFeature) aNewSaleSessionIsOpen() error {
	f.session = New(f.snapshot, f.svc, WithIDGenerator(&cart.SequenceGenerator{}))
	return nil
}

func (f *checkoutFeature) lookUp(kind catalog.Kind, token string) {
	if f.session.Kind() != kind {
		f.session.SetKind(kind)
	}
	f.session.EnterToken(token)
}

func (f *checkoutFeature) iLookUpService(token string) error {
	f.lookUp(catalog.KindService, token)
	return nil
}

func (f *checkoutFeature) iLookUpServiceAndAddIt(token string) error {
	f.lookUp(catalog.KindService, token)
	if _, ok := f.session.AddSelected(); !ok {
		return fmt.Errorf("service %q was not added", token)
	}
	return nil
}

func (f *checkoutFeature) iLookUpProductAndAddIt(token string) error {
	f.lookUp(catalog.KindProduct, token)
	if _, ok := f.session.AddSelected(); !ok {
		return fmt.Errorf("product %q was not added", token)
	}
	return nil
}

func (f *checkoutFeature) iSwitchToProducts() error {
	f.session.SetKind(catalog.KindProduct)
	return nil
}

func (f *checkoutFeature) iEnterDiscount(text string) error {
	f.session.SetDiscount(text)
	return nil
}

func (f *checkoutFeature) iChoosePaymentMethod(method string) error {
	m, err := sale.ParsePaymentMethod(method)
	if err != nil {
		return err
	}
	f.session.SetPaymentMethod(m)
	return nil
}

func (f *checkoutFeature) iSubmitTheSale() error {
	_, f.err = f.session.Submit(context.Background())
	return nil
}

func (f *checkoutFeature) theSubmissionIsRejectedWithReason(reason string) error {
	var rejected *sale.RejectedError
	if !errors.As(f.err, &rejected) {
		return fmt.Errorf("expected rejection, got %v", f.err)
	}
	if string(rejected.Reason) != reason {
		return fmt.Errorf("expected reason %s, got %s", reason, rejected.Reason)
	}
	return nil
}

func (f *checkoutFeature) noSaleRequestWasSent() error {
	if n := f.svc.calls(); n != 0 {
		return fmt.Errorf("expected no request, got %d", n)
	}
	return nil
}

func (f *checkoutFeature) theDisplayedTotalIs(want string) error {
	got := f.session.Totals().Total
	if !got.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected total %s, got %s", want, got.StringFixed(2))
	}
	return nil
}

func (f *checkoutFeature) lastRequest() (sale.Request, error) {
	if f.err != nil {
		return sale.Request{}, fmt.Errorf("submit failed: %w", f.err)
	}
	if f.svc.calls() != 1 {
		return sale.Request{}, fmt.Errorf("expected one request, got %d", f.svc.calls())
	}
	return f.svc.requests[0], nil
}

func (f *checkoutFeature) aSaleRequestWasSentWithDiscount(want string) error {
	req, err := f.lastRequest()
	if err != nil {
		return err
	}
	if !req.Discount.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected discount %s, got %s", want, req.Discount)
	}
	return nil
}

func (f *checkoutFeature) requestItem(n int) (sale.ItemRequest, error) {
	req, err := f.lastRequest()
	if err != nil {
		return sale.ItemRequest{}, err
	}
	if n < 1 || n > len(req.Items) {
		return sale.ItemRequest{}, fmt.Errorf("request has %d items", len(req.Items))
	}
	return req.Items[n-1], nil
}

func (f *checkoutFeature) theRequestItemReferencesService(n int, id int64, qty int) error {
	item, err := f.requestItem(n)
	if err != nil {
		return err
	}
	if item.ProductID != nil || item.ServiceID == nil || *item.ServiceID != id || item.Quantity != qty {
		return fmt.Errorf("unexpected item %d: %+v", n, item)
	}
	return nil
}

func (f *checkoutFeature) theRequestItemReferencesProduct(n int, id string, qty int) error {
	item, err := f.requestItem(n)
	if err != nil {
		return err
	}
	if item.ServiceID != nil || item.ProductID == nil || *item.ProductID != id || item.Quantity != qty {
		return fmt.Errorf("unexpected item %d: %+v", n, item)
	}
	return nil
}

func (f *checkoutFeature) theCartIsEmpty() error {
	if n := len(f.session.Lines()); n != 0 {
		return fmt.Errorf("expected empty cart, got %d lines", n)
	}
	return nil
}

func (f *checkoutFeature) theSelectedItemIs(name string) error {
	item, ok := f.session.Selected()
	if !ok {
		return errors.New("nothing selected")
	}
	if item.DisplayName() != name {
		return fmt.Errorf("expected %q selected, got %q", name, item.DisplayName())
	}
	return nil
}

func (f *checkoutFeature) nothingIsSelected() error {
	if sel := f.session.Selection(); sel != "" {
		return fmt.Errorf("expected no selection, got %q", sel)
	}
	if tok := f.session.Token(); tok != "" {
		return fmt.Errorf("expected empty token, got %q", tok)
	}
	return nil
}

func initializeCheckoutScenario(ctx *godog.ScenarioContext) {
	f := &checkoutFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog has these services:$`, f.theCatalogHasTheseServices)
	ctx.Step(`^the catalog has these products:$`, f.theCatalogHasTheseProducts)
	ctx.Step(`^a new sale session is open$`, f.aNewSaleSessionIsOpen)

	// When steps
	ctx.Step(`^I look up service "([^"]*)"$`, f.iLookUpService)
	ctx.Step(`^I look up service "([^"]*)" and add it$`, f.iLookUpServiceAndAddIt)
	ctx.Step(`^I look up product "([^"]*)" and add it$`, f.iLookUpProductAndAddIt)
	ctx.Step(`^I switch to products$`, f.iSwitchToProducts)
	ctx.Step(`^I enter discount "([^"]*)"$`, f.iEnterDiscount)
	ctx.Step(`^I choose payment method "([^"]*)"$`, f.iChoosePaymentMethod)
	ctx.Step(`^I submit the sale$`, f.iSubmitTheSale)

	// Then steps
	ctx.Step(`^the submission is rejected with reason "([^"]*)"$`, f.theSubmissionIsRejectedWithReason)
	ctx.Step(`^no sale request was sent$`, f.noSaleRequestWasSent)
	ctx.Step(`^the displayed total is "([^"]*)"$`, f.theDisplayedTotalIs)
	ctx.Step(`^a sale request was sent with discount "([^"]*)"$`, f.aSaleRequestWasSentWithDiscount)
	ctx.Step(`^the request item (\d+) references service (\d+) with quantity (\d+)$`, f.theRequestItemReferencesService)
	ctx.Step(`^the request item (\d+) references product "([^"]*)" with quantity (\d+)$`, f.theRequestItemReferencesProduct)
	ctx.Step(`^the cart is empty$`, f.theCartIsEmpty)
	ctx.Step(`^the selected item is "([^"]*)"$`, f.theSelectedItemIs)
	ctx.Step(`^nothing is selected$`, f.nothingIsSelected)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeCheckoutScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
