package transform

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gaurav-prasanna/rpipipe/core/normalize"
	"github.com/gaurav-prasanna/rpipipe/core/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonical parses a raw gazette document and runs the global passes.
func canonical(t *testing.T, raw string) tree.Node {
	t.Helper()
	doc, err := tree.ParseJSON([]byte(raw))
	require.NoError(t, err)
	return normalize.New().Normalize(doc)
}

func str(t *testing.T, n tree.Node) string {
	t.Helper()
	s, ok := n.Str()
	require.True(t, ok, "expected scalar, got %s", n)
	return s
}

const trademarkDoc = `{
  "@numero": "1234",
  "@data": "2024-05-01",
  "processo": {
    "@numero": "900000001",
    "@data-deposito": "10/01/2023",
    "titulares": {"titular": {"@nome-razao-social": "Acme", "@pais": "BR", "uf": {}}},
    "classes-vienna": {"classe-vienna": [
      {"@codigo": "26.1.1", "@edicao": "4"},
      {"@codigo": "27.5.1", "@edicao": "4"}
    ]},
    "despachos": {"despacho": {
      "@codigo": "IPAS009",
      "@nome": "Publicação de pedido",
      "protocolo": {
        "@numero": "850230000001",
        "@data": "02/01/2024",
        "@codigo": "337.1",
        "requerente": {"@nome-razao-social": "Acme", "@pais": "BR", "@uf": "SP"}
      }
    }}
  }
}`

func TestTrademark_Transform(t *testing.T) {
	t.Parallel()

	records, err := NewTrademark().Transform(canonical(t, trademarkDoc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, "1234 - 2024-05-01", str(t, rec.Get(FieldIssue)))
	assert.Equal(t, "900000001", str(t, rec.Get("number")))

	holders := rec.Get("holder-list")
	require.True(t, holders.IsList(), spew.Sdump(rec))
	require.Equal(t, 1, holders.Len())
	holder := holders.Items()[0]
	assert.Equal(t, "Acme", str(t, holder.Get("name")))
	assert.Equal(t, "BR", str(t, holder.Get(FieldAddress)))
	assert.False(t, holder.Has("country"))
	assert.False(t, holder.Has("state"))

	vienna := rec.Get("vienna-class-list")
	require.Equal(t, 2, vienna.Len())
	for _, v := range vienna.Items() {
		assert.False(t, v.Has("edition"))
		assert.True(t, v.Has("code"))
	}

	dispatches := rec.Get("dispatch-list")
	require.Equal(t, 1, dispatches.Len())
	d := dispatches.Items()[0]
	assert.Equal(t, "009 - Publicação de pedido", str(t, d.Get(FieldDispatch)))
	assert.False(t, d.Has("code"))
	assert.False(t, d.Has("name"))

	protocol := d.Get("protocol")
	assert.Equal(t, "850230000001", str(t, protocol.Get("protocol-number")))
	assert.Equal(t, "02/01/2024", str(t, protocol.Get("protocol-date")))
	assert.Equal(t, "337.1", str(t, protocol.Get("protocol-code")))
	assert.Equal(t, "BR/SP", str(t, protocol.Path("requester", FieldAddress)))
}

func TestTrademark_ManyProcesses(t *testing.T) {
	t.Parallel()

	doc := canonical(t, `{"@numero":"1","@data":"d","processo":[
		{"@numero":"a"},
		{"@numero":"b","titulares":{"titular":[{"@nome-razao-social":"X"},{"@nome-razao-social":"Y"}]}},
		"stray"
	]}`)
	records, err := NewTrademark().Transform(doc)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.False(t, records[0].Has("holder-list"), "absent lists stay absent")
	assert.Equal(t, 2, records[1].Get("holder-list").Len())
	for _, rec := range records {
		assert.Equal(t, "1 - d", str(t, rec.Get(FieldIssue)))
	}
}

func TestTrademark_MissingPivot(t *testing.T) {
	t.Parallel()

	_, err := NewTrademark().Transform(canonical(t, `{"@numero":"1","@data":"d"}`))
	assert.True(t, errors.Is(err, ErrMissingPivot))
}

const patentDoc = `{
  "@numero": "2790",
  "@dataPublicacao": "2024-06-04",
  "despacho": [{
    "codigo": "3.1",
    "titulo": "Publicação do pedido",
    "comentario": {"#text": "Prazo de 60 dias"},
    "processo-patente": {
      "numero": {"@inid": "21", "#text": "BR102024000001-0"},
      "data-deposito": {"@inid": "22", "#text": "01/01/2024"},
      "titulo": {"@inid": "54", "#text": "Dispositivo"},
      "data-fase-nacional": {"#text": "05/03/2024"},
      "publicacao-nacional": {"data-rpi": {"#text": "2024-06-04"}},
      "titular-lista": {"titular": [
        {"nome-completo": "Alpha", "endereco": {"pais": {"sigla": "US"}, "uf": "CA"}},
        {"nome-completo": "Beta", "endereco": {"pais": {"sigla": "US"}}}
      ]},
      "inventor-lista": {"inventor": {"nome-completo": "Ann"}},
      "prioridade-unionista-lista": {"prioridade-unionista": {
        "@sequencia": "1",
        "sigla-pais": {"#text": "US"},
        "numero-prioridade": {"#text": "63/000001"},
        "data-prioridade": {"#text": "01/01/2023"}
      }},
      "classificacao-internacional-lista": {"classificacao-internacional": {"@ano": "2006.01", "#text": "A61K 31/00"}},
      "classificacao-nacional-lista": {"classificacao-nacional": "21-1"}
    }
  }]
}`

func TestPatent_Transform(t *testing.T) {
	t.Parallel()

	records, err := NewPatent().Transform(canonical(t, patentDoc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, "2790 - 2024-06-04", str(t, rec.Get(FieldIssue)))
	assert.Equal(t, "3.1 - Publicação do pedido", str(t, rec.Get(FieldDispatch)))
	assert.Equal(t, "Prazo de 60 dias", str(t, rec.Get("comment")))
	assert.Equal(t, "BR102024000001-0", str(t, rec.Get("number")))
	assert.Equal(t, "01/01/2024", str(t, rec.Get("filing-date")))
	assert.Equal(t, "Dispositivo", str(t, rec.Get("title")))
	assert.Equal(t, "05/03/2024", str(t, rec.Get("national-phase-date")))
	assert.Equal(t, "2024-06-04", str(t, rec.Get("national-publication-date")))

	holders := rec.Get("holder-list").Items()
	require.Len(t, holders, 2, spew.Sdump(rec))
	assert.Equal(t, "US/CA", str(t, holders[0].Get(FieldAddress)))
	assert.Equal(t, "US", str(t, holders[1].Get(FieldAddress)))

	assert.Equal(t, 1, rec.Get("inventor-list").Len())

	prio := rec.Get("priority-list").Items()
	require.Len(t, prio, 1)
	assert.Equal(t, "US", str(t, prio[0].Get("priority-country")))
	assert.Equal(t, "63/000001", str(t, prio[0].Get("priority-number")))
	assert.Equal(t, "01/01/2023", str(t, prio[0].Get("priority-date")))
	assert.False(t, prio[0].Has("country-code"))

	intl := rec.Get("international-class-list").Items()
	require.Len(t, intl, 1)
	assert.True(t, tree.Equal(tree.Object(tree.F("code", tree.Text("A61K 31/00"))), intl[0]), spew.Sdump(intl))

	national := rec.Get("national-class-list").Items()
	require.Len(t, national, 1)
	assert.Equal(t, "21-1", str(t, national[0].Get("code")))
}

func TestPatent_HolderWithDirectCountry(t *testing.T) {
	t.Parallel()

	holder := tree.Object(
		tree.F("name", tree.Text("Alpha")),
		tree.F("country", tree.Object(tree.F("acronym", tree.Text("US")))),
		tree.F("state", tree.Text("CA")),
	)
	got := nestedAddress(holder)
	assert.Equal(t, "US/CA", str(t, got.Get(FieldAddress)))
	assert.False(t, got.Has("country"))
}

func TestDesign_Transform(t *testing.T) {
	t.Parallel()

	doc := canonical(t, `{"@numero":"2790","@dataPublicacao":"2024-06-04","despacho":{
		"codigo":"39","titulo":"Concessão",
		"processo-patente":{
			"numero":{"#text":"BR302024000001-1"},
			"data-registro-prorrogacao":{"#text":"01/01/2034"},
			"procurador-lista":{"procurador":{"nome-completo":"Agente"}}
		}
	}}`)
	records, err := NewDesign().Transform(doc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "01/01/2034", str(t, records[0].Get("extension-date")))
	assert.Equal(t, 1, records[0].Get("attorney-list").Len())
	assert.Equal(t, "39 - Concessão", str(t, records[0].Get(FieldDispatch)))
}

func TestWrapped_MissingPivot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tr   interface {
			Transform(tree.Node) ([]tree.Node, error)
		}
		doc string
	}{
		{"patent without dispatches", NewPatent(), `{"@numero":"1","@data":"d"}`},
		{"design dispatch without process", NewDesign(), `{"@numero":"1","@data":"d","despacho":{"codigo":"1"}}`},
		{"software without dispatches", NewSoftware(), `{"@numero":"1"}`},
		{"contract dispatch without process", NewContract(), `{"despacho":[{"processo-contrato":{}},{"codigo":"2"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := tt.tr.Transform(canonical(t, tt.doc))
			assert.True(t, errors.Is(err, ErrMissingPivot), "got %v", err)
			assert.Nil(t, records)
		})
	}
}

func TestSoftware_Transform(t *testing.T) {
	t.Parallel()

	doc := canonical(t, `{"@numero":"2790","@data":"2024-06-04","despacho":{
		"codigo":"730","titulo":"Registro concedido",
		"processo-programa":{
			"numero":{"#text":"BR512024000001-1"},
			"titulo":{"#text":"Programa"},
			"dataCriacao":{"#text":"01/01/2020"},
			"campoAplicacaoLista":{"campoAplicacao":{"codigo":{"#text":"AD-01"}}},
			"linguagemLista":{"linguagem":["Go",{"#text":"Python"}]},
			"tipoProgramaLista":{"tipoPrograma":[{"codigo":{"#text":"SO-01"}},{"codigo":"AP-02"}]},
			"criadorLista":{"criador":{"nome":"Ana"}},
			"titulares":{"titular":{"nome":"Acme"}}
		}
	}}`)
	records, err := NewSoftware().Transform(doc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, "BR512024000001-1", str(t, rec.Get("number")))
	assert.Equal(t, "01/01/2020", str(t, rec.Get("creation-date")))
	assert.Equal(t, "730 - Registro concedido", str(t, rec.Get(FieldDispatch)))

	fields := rec.Get("application-field-list").Items()
	require.Len(t, fields, 1)
	assert.Equal(t, "AD-01", str(t, fields[0].Get("code")))

	langs := rec.Get("language-list").Items()
	require.Len(t, langs, 2)
	assert.Equal(t, "Go", str(t, langs[0].Get("language")))
	assert.Equal(t, "Python", str(t, langs[1].Get("language")))

	types := rec.Get("program-type-list").Items()
	require.Len(t, types, 2)
	assert.Equal(t, "SO-01", str(t, types[0].Get("code")))
	assert.Equal(t, "AP-02", str(t, types[1].Get("code")))

	assert.Equal(t, 1, rec.Get("creator-list").Len())
	assert.Equal(t, 1, rec.Get("holder-list").Len())
}

func TestContract_Transform(t *testing.T) {
	t.Parallel()

	doc := canonical(t, `{"@numero":"2790","@data":"2024-06-04","despacho":{
		"codigo":"150","titulo":"Averbação",
		"processo-contrato":{
			"numero":{"#text":"BR702024000001-0"},
			"data-protocolo":{"#text":"01/01/2024"},
			"cedentes":{"cedente":{
				"nome":{"#text":"Acme Inc","@tipo":"PJ"},
				"endereco":{"pais":{"nome":{"#text":"Estados Unidos"}}}
			}},
			"cessionarias":{"cessionaria":[{"nome":"Beta","setor":{"#text":"Indústria"}}]},
			"certificados":{"certificado":{"numero":{"#text":"C1"},"valorContrato":{"#text":"100.000,00"},"descricaoMoeda":"USD"}},
			"peticoes":{"peticao":{"numero":{"#text":"P1"},"data-protocolo":{"#text":"02/01/2024"},"requerente":{"nome":{"#text":"Acme"}}}}
		}
	}}`)
	records, err := NewContract().Transform(doc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]

	transferors := rec.Get("transferor-list")
	require.True(t, transferors.IsList())
	require.Equal(t, 1, transferors.Len())
	transferor := transferors.Items()[0]
	assert.Equal(t, "Acme Inc", str(t, transferor.Get("name")))
	assert.Equal(t, "Estados Unidos", str(t, transferor.Get(FieldAddress)))

	transferee := rec.Get("transferee-list").Items()[0]
	assert.Equal(t, "Indústria", str(t, transferee.Get("sector")))

	cert := rec.Get("certificate-list").Items()[0]
	assert.Equal(t, "C1", str(t, cert.Get("number")))
	assert.Equal(t, "100.000,00", str(t, cert.Get("contract-value")))
	assert.Equal(t, "USD", str(t, cert.Get("currency")))

	petition := rec.Get("petition-list").Items()[0]
	assert.Equal(t, "P1", str(t, petition.Get("number")))
	assert.Equal(t, "02/01/2024", str(t, petition.Get("protocol-date")))
	assert.Equal(t, "Acme", str(t, petition.Get("requester")))
}

func TestRecordType_Codes(t *testing.T) {
	t.Parallel()

	for _, rt := range Types() {
		got, ok := ParseCode(rt.Code())
		require.True(t, ok)
		assert.Equal(t, rt, got)
		assert.NotNil(t, For(rt))
	}
	_, ok := ParseCode("XX")
	assert.False(t, ok)
	assert.Equal(t, "RecordType(0)", RecordType(0).String())
}

func TestIssueAndLabel(t *testing.T) {
	t.Parallel()

	doc := tree.Object(tree.F("number", tree.Text("1234")), tree.F("date", tree.Object(tree.F(normalize.Payload, tree.Text("2024-05-01")))))
	assert.Equal(t, "1234 - 2024-05-01", Issue(doc))
	assert.Equal(t, "003 - Pedido", Label("003", "Pedido"))
	assert.Equal(t, "BR", joinAddress("BR", ""))
}
