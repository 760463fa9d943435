package mailer

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

// Template names
const (
	VerifyCode = "verify_code"
)

type emailTemplate struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var registry = map[string]emailTemplate{
	VerifyCode: {
		subject: texttpl.Must(texttpl.New("subject").Parse(
			`{{ with .AppName }}{{ . }}: {{ end }}your verification code`)),
		text: texttpl.Must(texttpl.New("text").Parse(
			"Your verification code is {{ .Code }}.\n" +
				"It expires in {{ .ExpiresIn }}. If you did not sign up, ignore this email.\n")),
		html: htmpl.Must(htmpl.New("html").Parse(
			`<!doctype html><html><body style="font-family:sans-serif">` +
				`<p>Your verification code is</p>` +
				`<p style="font-size:24px;letter-spacing:4px"><strong>{{ .Code }}</strong></p>` +
				`<p>It expires in {{ .ExpiresIn }}. If you did not sign up, ignore this email.</p>` +
				`</body></html>`)),
	},
}

// Render renders subject, text and html for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	tpl, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.subject.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec subject %q: %w", name, err)
	}
	subject = buf.String()

	buf.Reset()
	if err := tpl.text.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec text %q: %w", name, err)
	}
	text = buf.String()

	buf.Reset()
	if err := tpl.html.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec html %q: %w", name, err)
	}
	return subject, text, buf.String(), nil
}
