package email

import (
	"bytes"
	"html/template"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	WelcomeTmpl *template.Template
	ReceiptTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	welcomeTmpl, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return nil, err
	}

	receiptTmpl, err := template.New("receipt").Parse(purchaseReceiptTemplate)
	if err != nil {
		return nil, err
	}

	return &TemplateManager{
		WelcomeTmpl: welcomeTmpl,
		ReceiptTmpl: receiptTmpl,
	}, nil
}

// WelcomeData holds the dynamic data for the welcome email.
type WelcomeData struct {
	Name string
	Link string
}

// ReceiptData holds the dynamic data for the purchase receipt email.
type ReceiptData struct {
	Name         string
	Carrier      string
	Service      string
	Rate         string
	TrackingCode string
	LabelURL     string
}

// GenerateWelcomeEmailHTML executes the welcome template.
func (tm *TemplateManager) GenerateWelcomeEmailHTML(data WelcomeData) (string, error) {
	var body bytes.Buffer
	if err := tm.WelcomeTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// GeneratePurchaseReceiptHTML executes the purchase receipt template.
func (tm *TemplateManager) GeneratePurchaseReceiptHTML(data ReceiptData) (string, error) {
	var body bytes.Buffer
	if err := tm.ReceiptTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// --- HTML Template Definitions ---

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Welcome</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Welcome, {{.Name}}!</h2>
	<p>Your account is ready. You can start quoting and purchasing USPS shipping labels right away:</p>
	<p><a href="{{.Link}}">Open your dashboard</a></p>
</body>
</html>
`

const purchaseReceiptTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Your Shipping Label</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Label purchased</h2>
	<p>Hello {{.Name}},</p>
	<p>Your {{.Carrier}} {{.Service}} label was purchased for ${{.Rate}}.</p>
	<p>Tracking code: <strong>{{.TrackingCode}}</strong></p>
	<p><a href="{{.LabelURL}}">Download your label</a></p>
	<p>Labels can usually be refunded until they are scanned by the carrier.</p>
</body>
</html>
`
