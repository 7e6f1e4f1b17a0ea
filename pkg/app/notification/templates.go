package notification

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

const (
	downloadSubject   = "Your DevOpsInterview.Cloud Download Links"
	newsletterSubject = "Welcome to the DevOpsInterview.Cloud newsletter"
)

type downloadView struct {
	Title      string
	Links      []downloadLink
	ValidHours int
	Support    string
}

type downloadLink struct {
	Format string
	URL    string
}

type newsletterView struct {
	Name    string
	AppURL  string
	Support string
}

type contactView struct {
	Name    string
	Email   string
	Subject string
	Message string
}

var downloadHTML = htmltemplate.Must(htmltemplate.New("download.html").Parse(`<h1>Thank you for your purchase!</h1>
<p>Your copy of <strong>{{.Title}}</strong> is ready.</p>
<ul>
{{- range .Links}}
  <li><a href="{{.URL}}">Download {{.Format}}</a></li>
{{- end}}
</ul>
<p>These links are valid for {{.ValidHours}} hours.</p>
<p>Questions? Contact us at <a href="mailto:{{.Support}}">{{.Support}}</a>.</p>
`))

var downloadText = texttemplate.Must(texttemplate.New("download.txt").Parse(`Thank you for your purchase!

Your copy of {{.Title}} is ready.
{{range .Links}}
{{.Format}}: {{.URL}}
{{- end}}

These links are valid for {{.ValidHours}} hours.
Questions? Contact us at {{.Support}}.
`))

var newsletterHTML = htmltemplate.Must(htmltemplate.New("newsletter.html").Parse(`<h1>Welcome{{if .Name}}, {{.Name}}{{end}}!</h1>
<p>You are subscribed to DevOpsInterview.Cloud updates.</p>
<p><a href="{{.AppURL}}">Browse the guides</a></p>
<p>To unsubscribe, reply to this email or write to {{.Support}}.</p>
`))

var newsletterText = texttemplate.Must(texttemplate.New("newsletter.txt").Parse(`Welcome{{if .Name}}, {{.Name}}{{end}}!

You are subscribed to DevOpsInterview.Cloud updates.
Browse the guides: {{.AppURL}}

To unsubscribe, reply to this email or write to {{.Support}}.
`))

var contactHTML = htmltemplate.Must(htmltemplate.New("contact.html").Parse(`<h2>New contact form submission</h2>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<pre>{{.Message}}</pre>
`))

var contactText = texttemplate.Must(texttemplate.New("contact.txt").Parse(`New contact form submission

From: {{.Name}} <{{.Email}}>
Subject: {{.Subject}}

{{.Message}}
`))
