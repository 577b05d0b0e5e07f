// Package statement renders seller payout statements to PDF.
package statement

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/marketplace/backend/internal/domain/payout"
)

const statementTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #222; }
h1 { font-size: 18px; margin-bottom: 2px; }
.period { color: #666; margin-bottom: 16px; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 6px 4px; border-bottom: 1px solid #ddd; text-align: left; }
td.num, th.num { text-align: right; }
tfoot td { font-weight: bold; border-top: 2px solid #222; }
.net { margin-top: 16px; font-size: 14px; text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="period">{{.Seller}} &middot; {{date .From}} to {{date .To}}</div>
<table>
<thead>
<tr><th>Order</th><th>Completed</th><th class="num">Order total</th><th class="num">Commission</th><th class="num">Payout</th><th class="num">Reversed</th><th>Status</th></tr>
</thead>
<tbody>
{{range .Lines}}<tr><td>#{{.OrderDisplayID}}</td><td>{{date .CompletedAt}}</td><td class="num">{{money .OrderTotal}}</td><td class="num">{{money .Commission}}</td><td class="num">{{money .PayoutAmount}}</td><td class="num">{{money .Reversed}}</td><td>{{title .PayoutStatus}}</td></tr>
{{else}}<tr><td colspan="7">No completed orders in this period</td></tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="2">Total</td><td class="num">{{money .Totals.OrderTotal}}</td><td class="num">{{money .Totals.Commission}}</td><td class="num">{{money .Totals.PayoutAmount}}</td><td class="num">{{money .Totals.Reversed}}</td><td></td></tr>
</tfoot>
</table>
<div class="net">Net earnings: {{money .Net}}</div>
<div class="period">Generated {{date .GeneratedAt}}</div>
</body>
</html>`

// HTMLBuilder renders the statement HTML with locale aware number formatting
type HTMLBuilder struct {
	tmpl *template.Template
	tag  language.Tag
}

// NewHTMLBuilder parses the statement template for locale (BCP 47, "en" when empty)
func NewHTMLBuilder(locale string) (*HTMLBuilder, error) {
	tag := language.English
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, err
		}
		tag = parsed
	}
	b := &HTMLBuilder{tag: tag}

	tmpl, err := template.New("statement").Funcs(template.FuncMap{
		"date":  func(t time.Time) string { return t.Format("2006-01-02") },
		"title": b.title,
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}).Parse(statementTemplate)
	if err != nil {
		return nil, err
	}
	b.tmpl = tmpl
	return b, nil
}

type view struct {
	Lang        string
	Title       string
	Seller      string
	From        time.Time
	To          time.Time
	GeneratedAt time.Time
	Lines       []payout.StatementLine
	Totals      payout.StatementLine
	Net         decimal.Decimal
}

// Build returns the statement HTML document
func (b *HTMLBuilder) Build(s *payout.Statement) (string, error) {
	printer := message.NewPrinter(b.tag)
	currency := strings.ToUpper(s.CurrencyCode)
	money := func(d decimal.Decimal) string {
		return currency + " " + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
	}

	tmpl, err := b.tmpl.Clone()
	if err != nil {
		return "", err
	}
	tmpl.Funcs(template.FuncMap{"money": money})

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, view{
		Lang:        b.tag.String(),
		Title:       "Payout statement",
		Seller:      s.SellerName,
		From:        s.From,
		To:          s.To,
		GeneratedAt: s.GeneratedAt,
		Lines:       s.Lines,
		Totals:      s.Totals(),
		Net:         s.Net(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (b *HTMLBuilder) title(s string) string {
	return cases.Title(b.tag).String(strings.ReplaceAll(s, "_", " "))
}
