package app

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates
var templatesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// placeholderSessionID is what the transaction_id query parameter
// still holds when Stripe never substituted it, i.e. the success page
// was opened directly.
const placeholderSessionID = "{CHECKOUT_SESSION_ID}"

func (app *Application) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer

	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (app *Application) HomeHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "home.html", map[string]any{
		"PublicKey": app.config.Stripe.PublicKey,
	})
}

func (app *Application) CheckoutFormHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "checkout.html", map[string]any{
		"PublicKey": app.config.Stripe.PublicKey,
	})
}

// SuccessHandler only renders a confirmation for a redirect that went
// through Stripe; direct visits bounce back home.
func (app *Application) SuccessHandler(w http.ResponseWriter, r *http.Request) {
	transactionID := r.URL.Query().Get("transaction_id")
	if transactionID == "" || transactionID == placeholderSessionID {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	app.render(w, r, "success.html", map[string]any{
		"PaymentStatus": r.URL.Query().Get("payment_status"),
		"Amount":        r.URL.Query().Get("amount"),
		"TransactionId": transactionID,
	})
}

func (app *Application) CancelHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "cancel.html", nil)
}
