package wire

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
)

// WriteProduct encodes one product.
func WriteProduct(e *jx.Encoder, p catalog.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("nome")
	e.Str(p.Name)
	e.FieldStart("categoria")
	e.Str(p.Category)
	e.FieldStart("marca")
	e.Str(p.Brand)
	e.FieldStart("codigo")
	e.Str(p.Code)
	e.FieldStart("descricao")
	e.Str(p.Description)
	e.FieldStart("precoCusto")
	writeDecimal(e, p.CostPrice)
	e.FieldStart("precoVenda")
	writeDecimal(e, p.SalePrice)
	e.FieldStart("quantidadeEstoque")
	e.Int(p.Stock)
	e.FieldStart("estoqueMinimo")
	e.Int(p.MinStock)
	e.FieldStart("disponivel")
	e.Bool(p.Available)
	e.ObjEnd()
}

// ReadProduct decodes one product. Unknown fields are skipped.
func ReadProduct(d *jx.Decoder) (catalog.Product, error) {
	var p catalog.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = readStr(d)
		case "nome":
			p.Name, err = readStr(d)
		case "categoria":
			p.Category, err = readStr(d)
		case "marca":
			p.Brand, err = readStr(d)
		case "codigo":
			p.Code, err = readStr(d)
		case "descricao":
			p.Description, err = readStr(d)
		case "precoCusto":
			p.CostPrice, err = readDecimal(d)
		case "precoVenda":
			p.SalePrice, err = readDecimal(d)
		case "quantidadeEstoque":
			p.Stock, err = readInt(d)
		case "estoqueMinimo":
			p.MinStock, err = readInt(d)
		case "disponivel":
			p.Available, err = readBool(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return p, err
}

// EncodeProducts renders a product list.
func EncodeProducts(products []catalog.Product) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		WriteProduct(&e, p)
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeProducts parses a product list.
func DecodeProducts(body []byte) ([]catalog.Product, error) {
	products := []catalog.Product{}
	err := jx.DecodeBytes(body).Arr(func(d *jx.Decoder) error {
		p, err := ReadProduct(d)
		if err != nil {
			return err
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// WriteService encodes one service.
func WriteService(e *jx.Encoder, s catalog.Service) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(s.ID)
	e.FieldStart("nome")
	e.Str(s.Name)
	e.FieldStart("categoriaServico")
	e.Str(s.Category)
	e.FieldStart("preco")
	writeDecimal(e, s.Price)
	e.FieldStart("descricao")
	e.Str(s.Description)
	e.FieldStart("duracaoInMin")
	e.Int(s.DurationMin)
	e.FieldStart("ativo")
	e.Bool(s.Active)
	e.ObjEnd()
}

// ReadService decodes one service.
func ReadService(d *jx.Decoder) (catalog.Service, error) {
	var s catalog.Service
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			s.ID, err = d.Int64()
		case "nome":
			s.Name, err = readStr(d)
		case "categoriaServico":
			s.Category, err = readStr(d)
		case "preco":
			s.Price, err = readDecimal(d)
		case "descricao":
			s.Description, err = readStr(d)
		case "duracaoInMin":
			s.DurationMin, err = readInt(d)
		case "ativo":
			s.Active, err = readBool(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return s, err
}

// EncodeServices renders a service list.
func EncodeServices(services []catalog.Service) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, s := range services {
		WriteService(&e, s)
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeServices parses a service list.
func DecodeServices(body []byte) ([]catalog.Service, error) {
	services := []catalog.Service{}
	err := jx.DecodeBytes(body).Arr(func(d *jx.Decoder) error {
		s, err := ReadService(d)
		if err != nil {
			return err
		}
		services = append(services, s)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode services")
	}
	return services, nil
}
