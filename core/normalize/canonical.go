package normalize

import (
	"errors"
	"fmt"

	"github.com/gaurav-prasanna/rpipipe/core/tree"
	"github.com/samber/lo"
)

// RulesVersion identifies the rename table below. Bump it whenever a raw
// name is added or a canonical name changes, since stored records depend on it.
const RulesVersion = "2024.2"

// ErrRuleConflict is returned for a rename table that is ambiguous or that
// would rename its own output.
var ErrRuleConflict = errors.New("normalize: conflicting rename rule")

// Rule maps one full raw field name to its canonical name.
type Rule struct {
	Raw       string
	Canonical string
}

func rename(canonical string, raws ...string) []Rule {
	return lo.Map(raws, func(raw string, _ int) Rule { return Rule{Raw: raw, Canonical: canonical} })
}

// DefaultRules is the gazette rename table. Matching is by exact raw name;
// every spelling seen across the five publications is listed explicitly.
var DefaultRules = lo.Flatten([][]Rule{
	// document header and shared fields
	rename("number", "@numero", "numero"),
	rename("date", "@data", "@dataPublicacao", "@data-publicacao"),
	rename("board", "@diretoria"),
	rename(Payload, tree.TextField),
	rename("comment", "comentario", "texto-complementar"),
	rename("code", "@codigo", "codigo"),
	rename("title", "titulo"),
	rename("name", "nome", "@nome", "nome-completo", "nomeCompleto", "@nome-razao-social", "nome-razao-social"),
	rename("country", "pais", "@pais"),
	rename("state", "uf", "@uf"),
	rename("acronym", "sigla"),
	rename("address", "endereco"),
	rename("process", "processo", "@processo"),
	rename("dispatch", "despacho"),
	rename("dispatch-list", "despachos", "despacho-lista"),
	rename("holder", "titular"),
	rename("holder-list", "titulares", "titular-lista", "titularLista"),
	rename("attorney", "procurador"),
	rename("attorney-list", "procurador-lista"),
	rename("filing-date", "@data-deposito", "data-deposito"),
	rename("grant-date", "@data-concessao", "data-concessao", "concessao"),
	rename("validity-date", "@data-vigencia", "data-vigencia"),
	rename("protocol-date", "@data-protocolo", "data-protocolo", "dataProtocolo"),

	// trademarks
	rename("presentation", "@apresentacao"),
	rename("nature", "@natureza"),
	rename("mark", "marca", "@marca"),
	rename("specification", "especificacao"),
	rename("edition", "@edicao"),
	rename("vienna-class", "classe-vienna"),
	rename("vienna-class-list", "classes-vienna", "classe-vienna-lista"),
	rename("nice-class", "classe-nice"),
	rename("nice-class-list", "lista-classe-nice", "classe-nice-lista"),
	rename("blocker", "sobrestador"),
	rename("blocker-list", "sobrestadores", "sobrestador-lista"),
	rename("protocol", "protocolo"),
	rename("requester", "requerente"),
	rename("assignee", "cessionario"),

	// patents and industrial designs
	rename("patent-process", "processo-patente"),
	rename("national-phase-date", "data-fase-nacional"),
	rename("national-publication-date", "publicacao-nacional", "data-publicacao-nacional"),
	rename("gazette-date", "data-rpi", "@data-rpi"),
	rename("extension-date", "data-registro-prorrogacao"),
	rename("inventor", "inventor"),
	rename("inventor-list", "inventor-lista"),
	rename("priority", "prioridade-unionista"),
	rename("priority-list", "prioridade-unionista-lista"),
	rename("country-code", "sigla-pais"),
	rename("priority-number", "numero-prioridade"),
	rename("priority-date", "data-prioridade"),
	rename("international-class", "classificacao-internacional"),
	rename("international-class-list", "classificacao-internacional-lista"),
	rename("year", "@ano"),
	rename("national-class", "classificacao-nacional"),
	rename("national-class-list", "classificacao-nacional-lista"),

	// software registrations
	rename("software-process", "processo-programa"),
	rename("application-field", "campoAplicacao"),
	rename("application-field-list", "campoAplicacaoLista", "campo-aplicacao-lista"),
	rename("creator", "criador"),
	rename("creator-list", "criadorLista", "criador-lista"),
	rename("creation-date", "dataCriacao", "data-criacao"),
	rename("language", "linguagem"),
	rename("language-list", "linguagemLista", "linguagem-lista"),
	rename("program-type", "tipoPrograma"),
	rename("program-type-list", "tipoProgramaLista", "tipo-programa-lista"),

	// technology contracts
	rename("contract-process", "processo-contrato"),
	rename("transferor", "cedente"),
	rename("transferor-list", "cedentes", "cedente-lista"),
	rename("transferee", "cessionaria"),
	rename("transferee-list", "cessionarias", "cessionaria-lista"),
	rename("certificate", "certificado"),
	rename("certificate-list", "certificados", "certificado-lista"),
	rename("petition", "peticao"),
	rename("petition-list", "peticoes", "peticao-lista"),
	rename("document-nature", "naturezaDocumento"),
	rename("object-text", "textoObjeto"),
	rename("category-code", "siglaCategoria"),
	rename("currency", "descricaoMoeda"),
	rename("contract-value", "valorContrato"),
	rename("payment-terms", "formaPagamento"),
	rename("contract-term", "prazoContrato"),
	rename("ip-validity-term", "prazoVigenciaPI"),
	rename("observation", "observacao"),
	rename("sector", "setor"),
})

// Canonicalizer renames raw field names throughout a tree.
type Canonicalizer struct {
	names map[string]string
}

// NewCanonicalizer builds a Canonicalizer from an exact-match table.
// A raw name mapped twice, or a canonical name that is itself renamed to
// something else, is rejected so that canonicalizing is idempotent.
func NewCanonicalizer(rules []Rule) (*Canonicalizer, error) {
	names := make(map[string]string, len(rules))
	for _, r := range rules {
		if r.Raw == "" || r.Canonical == "" {
			return nil, fmt.Errorf("%w: empty name in %+v", ErrRuleConflict, r)
		}
		if prev, ok := names[r.Raw]; ok && prev != r.Canonical {
			return nil, fmt.Errorf("%w: %q maps to both %q and %q", ErrRuleConflict, r.Raw, prev, r.Canonical)
		}
		names[r.Raw] = r.Canonical
	}
	for raw, canonical := range names {
		if next, ok := names[canonical]; ok && next != canonical {
			return nil, fmt.Errorf("%w: %q -> %q is renamed again to %q", ErrRuleConflict, raw, canonical, next)
		}
	}
	return &Canonicalizer{names: names}, nil
}

// MustCanonicalizer is NewCanonicalizer for tables known at compile time.
func MustCanonicalizer(rules []Rule) *Canonicalizer {
	c, err := NewCanonicalizer(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the canonical form of a raw name, or raw when unmapped.
func (c *Canonicalizer) Name(raw string) string {
	if canonical, ok := c.names[raw]; ok {
		return canonical
	}
	return raw
}

// Canonicalize returns a copy of n with every known field renamed.
// When two siblings would end up with the same name, the field already
// carrying it (or else the first renamed one) wins and the other keeps its
// raw name.
func (c *Canonicalizer) Canonicalize(n tree.Node) tree.Node {
	switch n.Kind() {
	case tree.Compound:
		src := n.Fields()
		used := make(map[string]bool, len(src))
		for _, f := range src {
			if c.Name(f.Name) == f.Name {
				used[f.Name] = true
			}
		}
		fields := make([]tree.Field, 0, len(src))
		for _, f := range src {
			name := c.Name(f.Name)
			if name != f.Name {
				if used[name] {
					name = f.Name
				}
				used[name] = true
			}
			fields = append(fields, tree.F(name, c.Canonicalize(f.Value)))
		}
		return tree.Object(fields...)
	case tree.List:
		return tree.Items(lo.Map(n.Items(), func(item tree.Node, _ int) tree.Node {
			return c.Canonicalize(item)
		})...)
	}
	return n
}
