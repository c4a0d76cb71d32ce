package wire

import (
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

func ptr[T any](v T) *T { return &v }

func TestEncodeSaleRequest(t *testing.T) {
	req := sale.Request{
		Discount: decimal.RequireFromString("30"),
		Items: []sale.ItemRequest{
			sale.ServiceItem(3, 1),
			sale.ProductItem("6f1c2b7e-0000-4000-8000-000000000001", 1),
		},
		PaymentMethod: sale.PaymentPix,
	}

	assert.JSONEq(t, `{
		"desconto": 30,
		"itens": [
			{"quantidade": 1, "servicoId": 3},
			{"quantidade": 1, "produtoId": "6f1c2b7e-0000-4000-8000-000000000001"}
		],
		"formaPagamento": "PIX"
	}`, string(EncodeSaleRequest(req)))

	req.Notes = "cliente nova"
	assert.Contains(t, string(EncodeSaleRequest(req)), `"observacoes":"cliente nova"`)
}

func TestDecodeSaleRequest(t *testing.T) {
	req, err := DecodeSaleRequest([]byte(`{
		"desconto": "12.50",
		"itens": [{"quantidade": 2, "produtoId": null, "servicoId": 7}],
		"formaPagamento": "FIADO",
		"extra": {"ignored": true}
	}`))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("12.5").Equal(req.Discount))
	require.Len(t, req.Items, 1)
	assert.Nil(t, req.Items[0].ProductID)
	require.NotNil(t, req.Items[0].ServiceID)
	assert.Equal(t, int64(7), *req.Items[0].ServiceID)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, sale.PaymentDeferred, req.PaymentMethod)

	_, err = DecodeSaleRequest([]byte(`{"desconto": "abc"}`))
	require.Error(t, err)
}

func TestDecodePage(t *testing.T) {
	body := `{
		"content": [{
			"id": "a1b2c3d4-e5f6-4a5b-8c7d-000000000001",
			"dataVenda": "2024-03-05T14:30:00",
			"valorTotal": 120.00,
			"desconto": 30,
			"formaPagamento": "PIX",
			"observacoes": null,
			"status": "CONCLUIDA"
		}],
		"pageable": {"pageNumber": 2, "sort": {"empty": true}},
		"totalPages": 5,
		"totalElements": 41,
		"size": 10,
		"number": 2,
		"sort": {"empty": true, "sorted": false},
		"first": false,
		"last": false,
		"numberOfElements": 1,
		"empty": false
	}`

	p, err := DecodePage([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, 41, p.TotalElements)
	assert.Equal(t, 2, p.Number)
	assert.False(t, p.First)
	require.Len(t, p.Content, 1)

	r := p.Content[0]
	assert.Equal(t, "a1b2c3d4", r.ShortID())
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), r.SoldAt)
	assert.True(t, decimal.RequireFromString("120").Equal(r.Total))
	assert.Equal(t, sale.StatusCompleted, r.Status)
	assert.Empty(t, r.Notes)
}

func TestDecodePage_Empty(t *testing.T) {
	p, err := DecodePage([]byte(`{"content":[],"totalPages":0,"totalElements":0,"size":10,"number":0,"first":true,"last":true,"empty":true}`))
	require.NoError(t, err)
	assert.NotNil(t, p.Content)
	assert.True(t, p.Empty)
}

func TestReceipt(t *testing.T) {
	in := sale.Receipt{
		SaleID:   "a1b2c3d4-e5f6-4a5b-8c7d-000000000001",
		IssuedAt: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		Status:   sale.StatusCancelled,
		Items: []sale.ReceiptItem{
			{Name: "Corte Feminino", Type: "SERVICO", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
			{Name: "Shampoo", Type: "PRODUTO", Quantity: 2, UnitPrice: decimal.RequireFromString("25.00")},
		},
		Gross:         decimal.RequireFromString("150.00"),
		Discount:      decimal.RequireFromString("30.00"),
		Net:           decimal.RequireFromString("120.00"),
		PaymentMethod: sale.PaymentCreditCard,
	}

	body := EncodeReceipt(in)
	assert.NotContains(t, string(body), "observacoes")

	out, err := DecodeReceipt(body)
	require.NoError(t, err)
	assert.Equal(t, in.SaleID, out.SaleID)
	assert.True(t, in.IssuedAt.Equal(out.IssuedAt))
	require.Len(t, out.Items, 2)
	assert.True(t, decimal.RequireFromString("50").Equal(out.Items[1].Subtotal()))
	assert.True(t, in.Net.Equal(out.Net))
	assert.Equal(t, sale.StatusCancelled, out.Record().Status)
}

func TestDecodeProducts(t *testing.T) {
	products, err := DecodeProducts([]byte(`[
		{"id":"p-1","nome":"Shampoo","categoria":"CABELO","marca":"Acme","codigo":"SH-001",
		 "descricao":null,"precoCusto":20.5,"precoVenda":50,"quantidadeEstoque":12,
		 "estoqueMinimo":3,"disponivel":true,"fornecedor":{"id":1}}
	]`))
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "SH-001", p.Code)
	assert.Empty(t, p.Description)
	assert.True(t, decimal.RequireFromString("20.5").Equal(p.CostPrice))
	assert.Equal(t, 12, p.Stock)
	assert.True(t, p.Available)

	_, err = DecodeProducts([]byte(`{"not":"a list"}`))
	require.Error(t, err)
}

func TestDecodeServices(t *testing.T) {
	services, err := DecodeServices([]byte(`[{"id":3,"nome":"Corte Feminino","categoriaServico":"CORTE","preco":"100.00","duracaoInMin":45,"ativo":true}]`))
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, int64(3), services[0].ID)
	assert.Equal(t, "3", services[0].Key())
	assert.Equal(t, 45, services[0].DurationMin)

	empty, err := DecodeServices([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFilterQuery(t *testing.T) {
	t.Run("absent fields are omitted", func(t *testing.T) {
		q := FilterQuery(sale.Filter{Page: 3})
		assert.Equal(t, url.Values{"page": {"3"}, "size": {"10"}}, q)
	})

	t.Run("reversed range is sent as-is", func(t *testing.T) {
		q := FilterQuery(sale.Filter{
			MinAmount: ptr(decimal.RequireFromString("100")),
			MaxAmount: ptr(decimal.RequireFromString("50")),
			Size:      10,
		})
		assert.Equal(t, "100", q.Get("valorMin"))
		assert.Equal(t, "50", q.Get("valorMax"))
	})

	t.Run("all fields", func(t *testing.T) {
		q := FilterQuery(sale.Filter{
			Start:  ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			End:    ptr(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
			Status: ptr(sale.StatusCancelled),
			Page:   1,
			Size:   20,
		})
		assert.Equal(t, "2024-01-01", q.Get("dataInicio"))
		assert.Equal(t, "2024-01-31", q.Get("dataFim"))
		assert.Equal(t, "CANCELADA", q.Get("status"))
		assert.Equal(t, "20", q.Get("size"))
	})
}

func TestParseFilterQuery(t *testing.T) {
	f, err := ParseFilterQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, sale.DefaultPageSize, f.Size)
	assert.False(t, f.HasConstraints())

	f, err = ParseFilterQuery(url.Values{
		"page":       {"2"},
		"dataInicio": {"2024-01-01"},
		"valorMax":   {"99.9"},
		"status":     {"CONCLUIDA"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.Page)
	require.NotNil(t, f.Start)
	require.NotNil(t, f.MaxAmount)
	assert.Nil(t, f.MinAmount)
	assert.Equal(t, sale.StatusCompleted, *f.Status)

	for _, bad := range []url.Values{
		{"page": {"-1"}},
		{"size": {"0"}},
		{"size": {"1000"}},
		{"dataFim": {"31/01/2024"}},
		{"valorMin": {"dez"}},
		{"status": {"PENDENTE"}},
	} {
		_, err := ParseFilterQuery(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2024-03-05T14:30:00Z", "2024-03-05T14:30:00.123", "2024-03-05T14:30:00", "2024-03-05"} {
		_, err := ParseTime(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseTime("05/03/2024")
	assert.Error(t, err)
}

func TestDecodeErrorMessage(t *testing.T) {
	assert.Equal(t, "sale already cancelled", DecodeErrorMessage(EncodeError(409, "sale already cancelled")))
	assert.Equal(t, "Not Found", DecodeErrorMessage([]byte(`{"timestamp":"x","status":404,"error":"Not Found","path":"/vendas/x"}`)))
	assert.Empty(t, DecodeErrorMessage([]byte(`<html>bad gateway</html>`)))
	assert.Empty(t, DecodeErrorMessage(nil))
}

func TestRoundTrip(t *testing.T) {
	soldAt := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	record := sale.Record{
		ID:            "a1b2c3d4-e5f6-4a5b-8c7d-000000000001",
		SoldAt:        soldAt,
		Total:         decimal.RequireFromString("120.00"),
		Discount:      decimal.RequireFromString("30.00"),
		PaymentMethod: sale.PaymentPix,
		Status:        sale.StatusCompleted,
		Notes:         "cliente nova",
	}

	t.Run("record", func(t *testing.T) {
		out, err := DecodeRecord(EncodeRecord(record))
		require.NoError(t, err)
		assert.Equal(t, record.ID, out.ID)
		assert.True(t, soldAt.Equal(out.SoldAt))
		assert.True(t, record.Total.Equal(out.Total))
		assert.True(t, record.Discount.Equal(out.Discount))
		assert.Equal(t, sale.PaymentPix, out.PaymentMethod)
		assert.Equal(t, sale.StatusCompleted, out.Status)
		assert.Equal(t, "cliente nova", out.Notes)
	})

	t.Run("literal record", func(t *testing.T) {
		out, err := DecodeRecord([]byte(`{"id":"a1","dataVenda":"2024-03-05T14:30:00","valorTotal":120,"desconto":0,"formaPagamento":"DINHEIRO","status":"CANCELADA"}`))
		require.NoError(t, err)
		assert.Equal(t, "a1", out.ID)
		assert.True(t, decimal.RequireFromString("120").Equal(out.Total))
		assert.Equal(t, sale.PaymentCash, out.PaymentMethod)
		assert.True(t, out.Cancelled())
	})

	t.Run("page", func(t *testing.T) {
		in := sale.Page{
			Content:       []sale.Record{record},
			TotalPages:    3,
			TotalElements: 21,
			Size:          10,
			Number:        1,
		}
		out, err := DecodePage(EncodePage(in))
		require.NoError(t, err)
		assert.Equal(t, 3, out.TotalPages)
		assert.Equal(t, 21, out.TotalElements)
		assert.Equal(t, 10, out.Size)
		assert.Equal(t, 1, out.Number)
		require.Len(t, out.Content, 1)
		assert.Equal(t, record.ID, out.Content[0].ID)
	})

	t.Run("sale request", func(t *testing.T) {
		in := sale.Request{
			Discount: decimal.RequireFromString("15.90"),
			Items: []sale.ItemRequest{
				sale.ServiceItem(3, 1),
				sale.ProductItem("p-1", 2),
			},
			PaymentMethod: sale.PaymentDebitCard,
			Notes:         "retorno",
		}
		out, err := DecodeSaleRequest(EncodeSaleRequest(in))
		require.NoError(t, err)
		assert.True(t, in.Discount.Equal(out.Discount))
		assert.Equal(t, in.PaymentMethod, out.PaymentMethod)
		assert.Equal(t, "retorno", out.Notes)
		require.Len(t, out.Items, 2)
		require.NotNil(t, out.Items[0].ServiceID)
		assert.Equal(t, int64(3), *out.Items[0].ServiceID)
		require.NotNil(t, out.Items[1].ProductID)
		assert.Equal(t, "p-1", *out.Items[1].ProductID)
		assert.Equal(t, 2, out.Items[1].Quantity)
	})

	t.Run("catalog", func(t *testing.T) {
		products, err := DecodeProducts(EncodeProducts([]catalog.Product{{
			ID:        "p-1",
			Code:      "SH-001",
			Name:      "Shampoo",
			CostPrice: decimal.RequireFromString("20.50"),
			SalePrice: decimal.RequireFromString("50.00"),
			Stock:     12,
			MinStock:  3,
			Available: true,
		}}))
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "SH-001", products[0].Code)
		assert.True(t, decimal.RequireFromString("50").Equal(products[0].SalePrice))
		assert.Equal(t, 3, products[0].MinStock)

		services, err := DecodeServices(EncodeServices([]catalog.Service{{
			ID:          3,
			Name:        "Corte Feminino",
			Price:       decimal.RequireFromString("100.00"),
			DurationMin: 45,
			Active:      true,
		}}))
		require.NoError(t, err)
		require.Len(t, services, 1)
		assert.Equal(t, int64(3), services[0].ID)
		assert.True(t, services[0].Active)
	})

	t.Run("auth", func(t *testing.T) {
		c, err := DecodeCredentials(EncodeCredentials(Credentials{Username: "admin", Password: "s3cret"}))
		require.NoError(t, err)
		assert.Equal(t, Credentials{Username: "admin", Password: "s3cret"}, c)

		tok, err := DecodeToken(EncodeToken(Token{AccessToken: "abc", ExpiresIn: 3600}))
		require.NoError(t, err)
		assert.Equal(t, Token{AccessToken: "abc", ExpiresIn: 3600}, tok)
	})
}

func TestDecode_FieldError(t *testing.T) {
	_, err := DecodeRecord([]byte(`{"id":"a1","valorTotal":"muito"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valorTotal")

	_, err = DecodeServices([]byte(`[{"id":"tres"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")
}
