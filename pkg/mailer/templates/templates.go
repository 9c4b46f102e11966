package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names understood by the email worker.
const (
	Welcome         = "welcome"
	PasswordChanged = "password_changed"
)

var subjects = map[string]string{
	Welcome:         "Welcome to bookMandala",
	PasswordChanged: "Your password was changed",
}

var bodies = map[string]*template.Template{
	Welcome: template.Must(template.New(Welcome).Parse(`
<p>Hi {{.Name}},</p>
<p>Your bookMandala account has been created with the email address {{.Email}}.</p>
<p>Happy reading!</p>`)),
	PasswordChanged: template.Must(template.New(PasswordChanged).Parse(`
<p>Hi {{.Name}},</p>
<p>The password for your bookMandala account ({{.Email}}) was just changed.</p>
<p>If this was not you, please contact support immediately.</p>`)),
}

var texts = map[string]string{
	Welcome:         "Hi %s, your bookMandala account has been created with the email address %s.",
	PasswordChanged: "Hi %s, the password for your bookMandala account (%s) was just changed. If this was not you, please contact support immediately.",
}

// Render renders a named template and returns subject, text and html bodies.
func Render(name string, data map[string]any) (string, string, string, error) {
	tpl, ok := bodies[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	nameVal := fmt.Sprintf("%v", data["Name"])
	emailVal := fmt.Sprintf("%v", data["Email"])
	text := fmt.Sprintf(texts[name], nameVal, emailVal)
	return subjects[name], text, buf.String(), nil
}
