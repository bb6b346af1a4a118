package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"

	"furniture-store/services"
)

// envelope is the body of every JSON response: {success, message?, ...payload}.
type envelope map[string]interface{}

// responder writes envelopes. Controllers embed it.
type responder struct {
	render *render.Render
}

func (rs responder) ok(w http.ResponseWriter, status int, payload envelope) {
	if payload == nil {
		payload = envelope{}
	}
	payload["success"] = true
	rs.render.JSON(w, status, payload)
}

func (rs responder) message(w http.ResponseWriter, status int, msg string) {
	rs.ok(w, status, envelope{"message": msg})
}

// fail answers with the status carried by a *services.Error; anything else is
// a 500 with the error text.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		rs.render.JSON(w, se.Status, envelope{"success": false, "message": se.Message})
		return
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("request failed")
	rs.render.JSON(w, http.StatusInternalServerError, envelope{"success": false, "message": err.Error()})
}

const maxJSONBody = 1 << 20

// decode reads a JSON body into v.
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return services.BadRequest("Request body is empty")
		}
		return &services.Error{Status: http.StatusBadRequest, Message: "Invalid input", Err: err}
	}
	return nil
}
