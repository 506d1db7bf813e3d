package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
)

var registrationTmpl = template.Must(template.New("registration").Parse(
	`<h1>Willkommen bei Preiskampf</h1>` +
		`<p>Schön, dass du dabei bist. Du musst bloß noch <a href="{{.Link}}">hier</a> klicken, um deinen Account zu aktivieren.</p>`))

var contactRequestTmpl = template.Must(template.New("contact_request").Parse(
	`<h1>Neue Kontaktanfrage</h1>` +
		`<p>{{.From}} möchte sich mit dir auf Preiskampf vernetzen.</p>` +
		`<p><a href="{{.Link}}">Anfrage ansehen</a></p>`))

// RegistrationEmail monta o e-mail com o link de ativação.
func RegistrationEmail(baseURL, to, token string) (Email, error) {
	link := baseURL + "/activate?token=" + url.QueryEscape(token)
	body, err := render(registrationTmpl, struct{ Link string }{link})
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Ihre Registrierung", Body: body}, nil
}

func ContactRequestEmail(baseURL, to, from string) (Email, error) {
	body, err := render(contactRequestTmpl, struct{ From, Link string }{from, baseURL + "/contacts"})
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Neue Kontaktanfrage", Body: body}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
