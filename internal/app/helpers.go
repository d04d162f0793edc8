package app

import (
	"encoding/json"
	"net/http"
	"strconv"

	"paynotify/api"
)

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

// readPaymentForm decodes a form-encoded payment form. A blank amount
// stays zero so the required rule reports it; anything unparseable is
// a malformed request.
func (app *Application) readPaymentForm(r *http.Request) (api.PaymentForm, error) {
	if err := r.ParseForm(); err != nil {
		return api.PaymentForm{}, err
	}

	form := api.PaymentForm{
		Email: r.PostFormValue("email"),
		Name:  r.PostFormValue("name"),
	}

	if raw := r.PostFormValue("amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return api.PaymentForm{}, err
		}
		form.Amount = amount
	}

	return form, nil
}
