package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

var funcs = template.FuncMap{"money": FormatMoney}

var tmpl = template.Must(template.New("notify").Funcs(funcs).Parse(`
{{define "items"}}<table>
<tr><th>{{.L.Product}}</th><th>{{.L.Qty}}</th><th>{{.L.Price}}</th><th>{{.L.Sum}}</th></tr>
{{range .P.LineItems}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{money .UnitPrice}}</td><td>{{money .Total}}</td></tr>
{{end}}</table>
<p><strong>{{.L.Total}}: {{money .P.TotalAmount}}</strong></p>{{end}}

{{define "customer"}}<h2>{{.Heading}}</h2>
<p>{{.L.Greeting}}{{if .P.RecipientName}} {{.P.RecipientName}}{{end}},</p>
<p>{{.Intro}}</p>
<p>{{.L.Order}}: {{.P.OrderID}}</p>
{{template "items" .}}{{end}}

{{define "operator"}}<h2>{{.Heading}}</h2>
<p>{{.L.Customer}}: {{.P.RecipientName}} &lt;{{.P.RecipientEmail}}&gt;</p>
<p>{{.L.Order}}: {{.P.OrderID}}</p>
{{template "items" .}}{{end}}

{{define "contact"}}<h2>Contact form</h2>
<p>Name: {{.Name}}</p>
<p>Email: {{.Email}}</p>
<p>{{.Message}}</p>{{end}}

{{define "reset_link"}}<h2>{{.Heading}}</h2>
<p>{{.Intro}}</p>
<p><code>{{.Token}}</code></p>
<p>{{.Note}}</p>{{end}}

{{define "reset"}}<h2>{{.Heading}}</h2>
<p>{{.Intro}}</p>
<p><code>{{.Password}}</code></p>{{end}}
`))

type labels struct {
	Greeting, Order, Product, Qty, Price, Sum, Total, Customer string
}

var labelSet = map[string]labels{
	"sr": {"Poštovani", "Porudžbina", "Proizvod", "Količina", "Cena", "Iznos", "Ukupno", "Kupac"},
	"en": {"Dear", "Order", "Product", "Quantity", "Price", "Amount", "Total", "Customer"},
}

type subjects struct{ Customer, Operator, Heading, Intro string }

var orderText = map[Kind]map[string]subjects{
	KindOrderPlaced: {
		"sr": {"Potvrda porudžbine", "Nova porudžbina", "Hvala na porudžbini", "Vaša porudžbina je primljena."},
		"en": {"Order confirmation", "New order", "Thank you for your order", "Your order has been received."},
	},
	KindPaymentConfirmed: {
		"sr": {"Potvrda plaćanja", "Plaćena porudžbina", "Plaćanje je uspešno", "Plaćanje vaše porudžbine je potvrđeno."},
		"en": {"Payment confirmation", "Order paid", "Payment successful", "The payment for your order has been confirmed."},
	},
}

var resetText = map[string]subjects{
	"sr": {Customer: "Nova lozinka", Heading: "Resetovanje lozinke", Intro: "Vaša nova lozinka je:"},
	"en": {Customer: "Your new password", Heading: "Password reset", Intro: "Your new password is:"},
}

type resetLinkText struct{ Subject, Heading, Intro, Note string }

var resetLinkTexts = map[string]resetLinkText{
	"sr": {"Zahtev za novu lozinku", "Resetovanje lozinke", "Za potvrdu zahteva iskoristite sledeći kod:", "Kod važi jedan sat. Ako niste vi poslali zahtev, zanemarite ovu poruku."},
	"en": {"Password reset request", "Password reset", "Use the following code to confirm the request:", "The code is valid for one hour. If you did not ask for a reset, ignore this message."},
}

func lang(l string) string {
	if l == "en" {
		return "en"
	}
	return "sr"
}

type orderView struct {
	P       Payload
	L       labels
	Heading string
	Intro   string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderCustomer(p Payload) (Message, error) {
	lg := lang(p.Lang)
	txt := orderText[p.Kind][lg]
	body, err := render("customer", orderView{P: p, L: labelSet[lg], Heading: txt.Heading, Intro: txt.Intro})
	if err != nil {
		return Message{}, err
	}
	return Message{To: p.RecipientEmail, Subject: txt.Customer, HTML: body}, nil
}

func renderOperator(p Payload, operator string) (Message, error) {
	lg := lang(p.Lang)
	txt := orderText[p.Kind][lg]
	body, err := render("operator", orderView{P: p, L: labelSet[lg], Heading: txt.Operator})
	if err != nil {
		return Message{}, err
	}
	return Message{To: operator, ReplyTo: p.RecipientEmail, Subject: txt.Operator + " " + p.OrderID, HTML: body}, nil
}
