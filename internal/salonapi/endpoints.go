package salonapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
	"github.com/JamersonCarlos/beauty-salon-web/internal/wire"
)

var (
	_ catalog.Source = (*Client)(nil)
	_ sale.Transport = (*Client)(nil)
)

func decodeMessage(body []byte) string {
	return wire.DecodeErrorMessage(body)
}

// ListProducts fetches the product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/produtos"})
	if err != nil {
		return nil, err
	}
	return wire.DecodeProducts(body)
}

// ListServices fetches the service catalog.
func (c *Client) ListServices(ctx context.Context) ([]catalog.Service, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/servicos"})
	if err != nil {
		return nil, err
	}
	return wire.DecodeServices(body)
}

// Create submits a new sale.
func (c *Client) Create(ctx context.Context, req sale.Request) (*sale.Record, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/vendas",
		body:   wire.EncodeSaleRequest(req),
	})
	if err != nil {
		return nil, err
	}
	return wire.DecodeRecord(body)
}

// List fetches one page of sales.
func (c *Client) List(ctx context.Context, f sale.Filter) (*sale.Page, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/vendas",
		query:  wire.FilterQuery(f),
	})
	if err != nil {
		return nil, err
	}
	return wire.DecodePage(body)
}

// Cancel moves a sale to CANCELADA.
func (c *Client) Cancel(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/vendas/" + url.PathEscape(id) + "/cancelar",
	})
	return err
}

// Receipt fetches the receipt of a sale.
func (c *Client) Receipt(ctx context.Context, id string) (*sale.Receipt, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/vendas/" + url.PathEscape(id) + "/recibo",
	})
	if err != nil {
		return nil, err
	}
	return wire.DecodeReceipt(body)
}

// Login opens a session. The server sets the session cookie; the returned
// access token is also kept and sent as a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (wire.Token, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   PathLogin,
		body:   wire.EncodeCredentials(wire.Credentials{Username: username, Password: password}),
	})
	if err != nil {
		return wire.Token{}, err
	}
	tok, err := wire.DecodeToken(body)
	if err != nil {
		return wire.Token{}, err
	}
	c.setToken(tok.AccessToken)
	return tok, nil
}

// Validate checks that the current session is still accepted.
func (c *Client) Validate(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodGet, path: PathValidate})
	return err
}

// Logout ends the session on the server and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: PathLogout})
	c.setToken("")
	return err
}
