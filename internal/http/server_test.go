package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"ventas/internal/core"
	applog "ventas/internal/log"
	"ventas/internal/report"
	"ventas/internal/services"
	"ventas/internal/table"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sample = "categoria;Cantidad;Precio_unitario(USD);Fecha\n" +
	"Hogar;3;$1,200.50;05/03/2024\n" +
	"Ropa;2;1999.99;06/03/2024\n" +
	"Hogar;1;$2,500.75;05/03/2024\n"

type fakeAudit struct {
	mu      sync.Mutex
	entries []core.LoadAudit
}

func (f *fakeAudit) RecordLoad(_ context.Context, a core.LoadAudit) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, a)
	return int64(len(f.entries)), nil
}

func (f *fakeAudit) RecentLoads(_ context.Context, limit int) ([]core.LoadAudit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.LoadAudit, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

type staticSource struct {
	name string
	body string
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) ReadTable(context.Context) (table.Table, error) {
	return table.ReadDelimited(strings.NewReader(s.body), table.DefaultOptions())
}

type testServer struct {
	*Server
	audit *fakeAudit
}

func newTestServer(t *testing.T, mutate func(*Options, *testServerDeps)) testServer {
	t.Helper()
	cfg := applog.DefaultConfig()
	cfg.Output = io.Discard

	deps := &testServerDeps{
		audit:  &fakeAudit{},
		source: &staticSource{name: "Ventas_Minoristas.csv", body: sample},
	}
	opts := Options{Addr: ":0", UploadRateLimit: 100, Theme: "dark", Logger: applog.New(cfg)}
	if mutate != nil {
		mutate(&opts, deps)
	}

	var audit services.AuditRecorder
	if deps.audit != nil {
		audit = deps.audit
	}
	svc := services.NewReportService(report.Detailed(), table.DefaultOptions(), audit, nil, opts.Logger)
	var srv *Server
	if deps.source != nil {
		srv = NewServer(opts, svc, deps.source)
	} else {
		srv = NewServer(opts, svc, nil)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return testServer{Server: srv, audit: deps.audit}
}

type testServerDeps struct {
	audit  *fakeAudit
	source *staticSource
}

func (ts testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ts.Handler.ServeHTTP(rr, req)
	return rr
}

func multipartRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile(FileField, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("order", "sorted"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndexAndHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Análisis de Ventas - TechNova Retail")
	assert.Contains(t, rr.Body.String(), `action="/upload"`)
	assert.Contains(t, rr.Body.String(), "Ventas_Minoristas.csv")
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := ts.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}

	rr = ts.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
}

func TestReadyChecks(t *testing.T) {
	ts := newTestServer(t, func(o *Options, _ *testServerDeps) {
		o.ReadyChecks = map[string]func(context.Context) error{
			"audit": func(context.Context) error { return errors.New("database is locked") },
		}
	})
	rr := ts.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "audit")
	assert.NotContains(t, rr.Body.String(), "locked")
}

func TestUploadRendersDashboard(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(multipartRequest(t, "/upload", "ventas.csv", sample))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := rr.Body.String()
	assert.Contains(t, body, "Vista previa del dataset")
	assert.Contains(t, body, "$3,601.50")
	assert.Contains(t, body, "05/03/2024")
	assert.Contains(t, body, "La categoría con mayores ventas es Hogar")
	assert.Equal(t, 4, strings.Count(body, `<img src="data:image/svg`))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	require.Len(t, ts.audit.entries, 1)
	assert.Equal(t, core.LoadOK, ts.audit.entries[0].Status)
	assert.Equal(t, "ventas.csv", ts.audit.entries[0].Filename)
}

func TestUploadNarrativeOverride(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.do(multipartRequest(t, "/upload?narrative=0&order=insertion", "ventas.csv", sample))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "La categoría con mayores ventas")
	assert.Contains(t, rr.Body.String(), `value="insertion" checked`)
}

func TestUploadFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		status   int
		contains string
	}{
		{
			name:     "wrong delimiter",
			filename: "ventas.csv",
			content:  strings.ReplaceAll(sample, ";", ","),
			status:   http.StatusUnprocessableEntity,
			contains: "malformed input",
		},
		{
			name:     "unparseable date",
			filename: "ventas.csv",
			content:  sample + "Ropa;1;$5;31/02/2024\n",
			status:   http.StatusUnprocessableEntity,
			contains: "Fecha",
		},
		{
			name:     "unsupported extension",
			filename: "ventas.pdf",
			content:  sample,
			status:   http.StatusBadRequest,
			contains: "formato no soportado",
		},
		{
			name:     "missing file",
			filename: "",
			status:   http.StatusBadRequest,
			contains: "no se recibió ningún archivo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			rr := ts.do(multipartRequest(t, "/upload", tt.filename, tt.content))
			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), "No se pudo cargar el archivo")
			assert.Contains(t, rr.Body.String(), tt.contains)
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	ts := newTestServer(t, func(o *Options, _ *testServerDeps) { o.MaxUploadBytes = 64 })
	rr := ts.do(multipartRequest(t, "/upload", "ventas.csv", strings.Repeat(sample, 10)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestAPIReport(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/report?filename=ventas.csv&order=insertion", strings.NewReader(sample))
	req.Header.Set("Content-Type", "text/csv")
	rr := ts.do(req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got report.Document
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "ventas.csv", got.Source)
	assert.Equal(t, "insertion", got.Order)
	assert.Equal(t, 3, got.Stats.Count)
	require.Len(t, got.ByCategory, 2)
	assert.Equal(t, "Hogar", got.ByCategory[0].Categoria)
	assert.InDelta(t, 6102.25, got.ByCategory[0].TotalVentas, 1e-9)
	require.NotNil(t, got.PeakDay)
	assert.Equal(t, "2024-03-05", got.PeakDay.Fecha)
	assert.Len(t, got.Narrative, 4)
}

func TestAPIReportVentasOverflow(t *testing.T) {
	ts := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(sample+"Ropa;10;1e308;01/03/2024\n"))
	rr := ts.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	var got ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, core.FieldParse, got.Kind)
	assert.Equal(t, core.ColPrecio, got.Column)
}

func TestAPIReportFieldError(t *testing.T) {
	ts := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(sample+"Ropa;dos;$5;01/03/2024\n"))
	rr := ts.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var got ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, core.FieldParse, got.Kind)
	assert.Equal(t, 4, got.Row)
	assert.Equal(t, core.ColCantidad, got.Column)

	require.Len(t, ts.audit.entries, 1)
	assert.Equal(t, core.LoadFailed, ts.audit.entries[0].Status)
}

func TestDefaultSource(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Ventas_Minoristas.csv")

	rr = ts.do(httptest.NewRequest(http.MethodGet, "/api/report?narrative=false", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var got report.Document
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Empty(t, got.Narrative)
	assert.Equal(t, "Ventas_Minoristas.csv", got.Source)
}

func TestNoDefaultSource(t *testing.T) {
	ts := newTestServer(t, func(_ *Options, d *testServerDeps) { d.source = nil })

	assert.Equal(t, http.StatusNotFound, ts.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil)).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(httptest.NewRequest(http.MethodGet, "/api/report", nil)).Code)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.do(multipartRequest(t, "/export", "ventas.csv", sample))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ExportFilename)

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Resumen", "Categorias", "Dias", "Registros"}, f.GetSheetList())
}

func TestLoads(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(multipartRequest(t, "/upload", "a.csv", sample))
	ts.do(multipartRequest(t, "/upload", "b.csv", "nope"))

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/api/loads?limit=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var got loadJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, 1, got.Count)
	assert.Equal(t, "b.csv", got.Loads[0].Filename)
	assert.Equal(t, core.LoadFailed, got.Loads[0].Status)

	disabled := newTestServer(t, func(_ *Options, d *testServerDeps) { d.audit = nil })
	rr = disabled.do(httptest.NewRequest(http.MethodGet, "/api/loads", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUploadRateLimit(t *testing.T) {
	ts := newTestServer(t, func(o *Options, _ *testServerDeps) { o.UploadRateLimit = 1 })

	assert.Equal(t, http.StatusOK, ts.do(multipartRequest(t, "/upload", "ventas.csv", sample)).Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.do(multipartRequest(t, "/upload", "ventas.csv", sample)).Code)
	assert.Equal(t, http.StatusOK, ts.do(httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestSuspiciousRequestBlocked(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.do(httptest.NewRequest(http.MethodGet, "/static/../.env", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
