package wire

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

// EncodeSaleRequest renders the create-sale body. Exactly one of produtoId
// and servicoId is written per item; observacoes is omitted when empty.
func EncodeSaleRequest(req sale.Request) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("desconto")
	writeDecimal(&e, req.Discount)
	e.FieldStart("itens")
	e.ArrStart()
	for _, it := range req.Items {
		e.ObjStart()
		e.FieldStart("quantidade")
		e.Int(it.Quantity)
		switch {
		case it.ProductID != nil:
			e.FieldStart("produtoId")
			e.Str(*it.ProductID)
		case it.ServiceID != nil:
			e.FieldStart("servicoId")
			e.Int64(*it.ServiceID)
		}
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("formaPagamento")
	e.Str(string(req.PaymentMethod))
	if req.Notes != "" {
		e.FieldStart("observacoes")
		e.Str(req.Notes)
	}
	e.ObjEnd()
	return e.Bytes()
}

// DecodeSaleRequest parses a create-sale body. Structural checks on the
// result are left to the caller.
func DecodeSaleRequest(body []byte) (sale.Request, error) {
	var req sale.Request
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "desconto":
			req.Discount, err = readDecimal(d)
		case "formaPagamento":
			var s string
			s, err = readStr(d)
			req.PaymentMethod = sale.PaymentMethod(s)
		case "observacoes":
			req.Notes, err = readStr(d)
		case "itens":
			err = d.Arr(func(d *jx.Decoder) error {
				it, err := readItemRequest(d)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, it)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	if err != nil {
		return sale.Request{}, errors.Wrap(err, "decode sale request")
	}
	return req, nil
}

func readItemRequest(d *jx.Decoder) (sale.ItemRequest, error) {
	var it sale.ItemRequest
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "quantidade":
			q, err := readInt(d)
			it.Quantity = q
			return err
		case "produtoId":
			if d.Next() == jx.Null {
				return d.Null()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			it.ProductID = &s
			return nil
		case "servicoId":
			if d.Next() == jx.Null {
				return d.Null()
			}
			id, err := d.Int64()
			if err != nil {
				return err
			}
			it.ServiceID = &id
			return nil
		default:
			return d.Skip()
		}
	})
	return it, err
}

// WriteRecord encodes one listing entry.
func WriteRecord(e *jx.Encoder, r sale.Record) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID)
	e.FieldStart("dataVenda")
	writeTime(e, r.SoldAt)
	e.FieldStart("valorTotal")
	writeDecimal(e, r.Total)
	e.FieldStart("desconto")
	writeDecimal(e, r.Discount)
	e.FieldStart("formaPagamento")
	e.Str(string(r.PaymentMethod))
	if r.Notes != "" {
		e.FieldStart("observacoes")
		e.Str(r.Notes)
	}
	e.FieldStart("status")
	e.Str(string(r.Status))
	e.ObjEnd()
}

// ReadRecord decodes one listing entry.
func ReadRecord(d *jx.Decoder) (sale.Record, error) {
	var r sale.Record
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			r.ID, err = readStr(d)
		case "dataVenda":
			r.SoldAt, err = readTime(d)
		case "valorTotal":
			r.Total, err = readDecimal(d)
		case "desconto":
			r.Discount, err = readDecimal(d)
		case "formaPagamento":
			var s string
			s, err = readStr(d)
			r.PaymentMethod = sale.PaymentMethod(s)
		case "observacoes":
			r.Notes, err = readStr(d)
		case "status":
			var s string
			s, err = readStr(d)
			r.Status = sale.Status(s)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return r, err
}

// EncodeRecord renders a single sale, as returned on creation.
func EncodeRecord(r sale.Record) []byte {
	var e jx.Encoder
	WriteRecord(&e, r)
	return e.Bytes()
}

// DecodeRecord parses a single sale.
func DecodeRecord(body []byte) (*sale.Record, error) {
	r, err := ReadRecord(jx.DecodeBytes(body))
	if err != nil {
		return nil, errors.Wrap(err, "decode sale")
	}
	return &r, nil
}

// EncodePage renders a listing page in the Spring Data layout.
func EncodePage(p sale.Page) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("content")
	e.ArrStart()
	for _, r := range p.Content {
		WriteRecord(&e, r)
	}
	e.ArrEnd()
	e.FieldStart("totalPages")
	e.Int(p.TotalPages)
	e.FieldStart("totalElements")
	e.Int(p.TotalElements)
	e.FieldStart("size")
	e.Int(p.Size)
	e.FieldStart("number")
	e.Int(p.Number)
	e.FieldStart("first")
	e.Bool(p.First)
	e.FieldStart("last")
	e.Bool(p.Last)
	e.FieldStart("empty")
	e.Bool(p.Empty)
	e.ObjEnd()
	return e.Bytes()
}

// DecodePage parses a listing page. Fields other than the ones of
// sale.Page, such as "pageable" and "sort", are skipped.
func DecodePage(body []byte) (*sale.Page, error) {
	p := sale.Page{Content: []sale.Record{}}
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "content":
			err = d.Arr(func(d *jx.Decoder) error {
				r, err := ReadRecord(d)
				if err != nil {
					return err
				}
				p.Content = append(p.Content, r)
				return nil
			})
		case "totalPages":
			p.TotalPages, err = readInt(d)
		case "totalElements":
			p.TotalElements, err = readInt(d)
		case "size":
			p.Size, err = readInt(d)
		case "number":
			p.Number, err = readInt(d)
		case "first":
			p.First, err = readBool(d)
		case "last":
			p.Last, err = readBool(d)
		case "empty":
			p.Empty, err = readBool(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode page")
	}
	return &p, nil
}

// EncodeReceipt renders a receipt.
func EncodeReceipt(r sale.Receipt) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("idVenda")
	e.Str(r.SaleID)
	e.FieldStart("data")
	writeTime(&e, r.IssuedAt)
	e.FieldStart("status")
	e.Str(string(r.Status))
	e.FieldStart("itens")
	e.ArrStart()
	for _, it := range r.Items {
		e.ObjStart()
		e.FieldStart("nome")
		e.Str(it.Name)
		e.FieldStart("tipo")
		e.Str(it.Type)
		e.FieldStart("quantidade")
		e.Int(it.Quantity)
		e.FieldStart("precoUnitario")
		writeDecimal(&e, it.UnitPrice)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("totalBruto")
	writeDecimal(&e, r.Gross)
	e.FieldStart("desconto")
	writeDecimal(&e, r.Discount)
	e.FieldStart("totalPagar")
	writeDecimal(&e, r.Net)
	e.FieldStart("formaPagamento")
	e.Str(string(r.PaymentMethod))
	if r.Notes != "" {
		e.FieldStart("observacoes")
		e.Str(r.Notes)
	}
	e.ObjEnd()
	return e.Bytes()
}

// DecodeReceipt parses a receipt.
func DecodeReceipt(body []byte) (*sale.Receipt, error) {
	var r sale.Receipt
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "idVenda":
			r.SaleID, err = readStr(d)
		case "data":
			r.IssuedAt, err = readTime(d)
		case "status":
			var s string
			s, err = readStr(d)
			r.Status = sale.Status(s)
		case "itens":
			err = d.Arr(func(d *jx.Decoder) error {
				it, err := readReceiptItem(d)
				if err != nil {
					return err
				}
				r.Items = append(r.Items, it)
				return nil
			})
		case "totalBruto":
			r.Gross, err = readDecimal(d)
		case "desconto":
			r.Discount, err = readDecimal(d)
		case "totalPagar":
			r.Net, err = readDecimal(d)
		case "formaPagamento":
			var s string
			s, err = readStr(d)
			r.PaymentMethod = sale.PaymentMethod(s)
		case "observacoes":
			r.Notes, err = readStr(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode receipt")
	}
	return &r, nil
}

func readReceiptItem(d *jx.Decoder) (sale.ReceiptItem, error) {
	var it sale.ReceiptItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "nome":
			it.Name, err = readStr(d)
		case "tipo":
			it.Type, err = readStr(d)
		case "quantidade":
			it.Quantity, err = readInt(d)
		case "precoUnitario":
			it.UnitPrice, err = readDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return it, err
}
