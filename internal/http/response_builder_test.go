package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventas/internal/core"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().
		Status(http.StatusAccepted).
		Header("X-Custom", "value").
		Body([]byte("test")).
		Write(w)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "test", w.Body.String())
	assert.Equal(t, "value", w.Header().Get("X-Custom"))
}

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(map[string]int{"rows": 3}).Write(w)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"rows":3}`, w.Body.String())
}

func TestResponseBuilder_Template(t *testing.T) {
	tmpl := template.Must(template.New("page.html").Parse(`<p>{{.}}</p>`))

	w := httptest.NewRecorder()
	NewResponse().Template(tmpl, "page.html", "<b>Hogar</b>").Write(w)
	assert.Equal(t, "<p>&lt;b&gt;Hogar&lt;/b&gt;</p>", w.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	b := NewResponse().Template(tmpl, "missing.html", nil)
	require.Error(t, b.Err())
	b.Write(w)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	NewResponse().Template(nil, "page.html", nil).Write(w)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResponseBuilder_Attachment(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Attachment("ventas resumen.xlsx", "application/octet-stream").Body([]byte{1}).Write(w)
	assert.Equal(t, `attachment; filename="ventas resumen.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	err := &core.LoadError{Kind: core.FieldParse, Row: 2, Column: core.ColPrecio, Value: "abc", Err: core.ErrInvalidPrice}
	JSONError(http.StatusUnprocessableEntity, err).Write(w)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, core.FieldParse, body.Kind)
	assert.Equal(t, 2, body.Row)
	assert.Equal(t, core.ColPrecio, body.Column)

	w = httptest.NewRecorder()
	JSONError(http.StatusNotFound, errors.New("gone")).Write(w)
	assert.JSONEq(t, `{"error":"gone"}`, w.Body.String())
}

func TestErrorResponseEscapes(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(http.StatusBadRequest, `<script>alert("x")</script>`).Write(w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")

	w = httptest.NewRecorder()
	NotFoundError("nada").Write(w)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
