package template

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultAddress is rendered when the tenant has no address on file.
const DefaultAddress = "Endereço não informado"

const dateLayout = "02/01/2006"

// Values carries everything a template may reference.
type Values struct {
	ClientName    string
	Date          time.Time
	StartTime     string
	ServiceName   string
	PriceCents    int64
	StaffName     string
	TenantName    string
	TenantAddress string
}

type placeholder struct {
	key    string
	format func(r *Renderer, v Values) string
}

// placeholders is the full set of recognized tokens; anything else is left verbatim.
var placeholders = []placeholder{
	{"cliente_nome", func(_ *Renderer, v Values) string { return v.ClientName }},
	{"data", func(_ *Renderer, v Values) string { return formatDate(v.Date) }},
	{"horario", func(_ *Renderer, v Values) string { return v.StartTime }},
	{"servico", func(_ *Renderer, v Values) string { return v.ServiceName }},
	{"preco", func(r *Renderer, v Values) string { return r.formatPrice(v.PriceCents) }},
	{"profissional", func(_ *Renderer, v Values) string { return v.StaffName }},
	{"barbearia_nome", func(_ *Renderer, v Values) string { return v.TenantName }},
	{"barbearia_endereco", func(r *Renderer, v Values) string {
		if strings.TrimSpace(v.TenantAddress) == "" {
			return r.defaultAddress
		}
		return v.TenantAddress
	}},
}

// Keys lists the recognized placeholder tokens, braces included.
func Keys() []string {
	out := make([]string, 0, len(placeholders))
	for _, p := range placeholders {
		out = append(out, "{"+p.key+"}")
	}
	return out
}

// Renderer substitutes placeholders in template bodies.
type Renderer struct {
	defaultAddress string
	lang           language.Tag
}

func NewRenderer(defaultAddress string) *Renderer {
	if defaultAddress == "" {
		defaultAddress = DefaultAddress
	}
	return &Renderer{defaultAddress: defaultAddress, lang: language.BrazilianPortuguese}
}

var std = NewRenderer(DefaultAddress)

// Render substitutes with the package defaults.
func Render(body string, v Values) string { return std.Render(body, v) }

// Render replaces every recognized placeholder in a single pass. Each value is
// computed once per call and inserted text is never re-scanned.
func (r *Renderer) Render(body string, v Values) string {
	pairs := make([]string, 0, 2*len(placeholders))
	for _, p := range placeholders {
		pairs = append(pairs, "{"+p.key+"}", p.format(r, v))
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

func (r *Renderer) formatPrice(cents int64) string {
	return message.NewPrinter(r.lang).Sprintf("%.2f", float64(cents)/100)
}

func formatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}
