package http

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"ventas/internal/core"
	"ventas/internal/export"
	applog "ventas/internal/log"
	"ventas/internal/report"
)

const (
	msgInternal   = "error interno al procesar el archivo"
	msgTooLarge   = "el archivo supera el tamaño máximo permitido"
	msgNoDefault  = "no hay archivo de ventas predeterminado"
	msgAuditOff   = "el registro de cargas está deshabilitado"
	defaultLoads  = 50
	maxLoadsLimit = 500
)

// errorStatus maps a load failure onto an HTTP status and the message shown
// to the user. Table problems are the client's; anything else is ours and
// its text stays in the logs.
func errorStatus(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
		return http.StatusRequestEntityTooLarge, msgTooLarge
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, msgNoDefault
	case errors.Is(err, ErrMissingFile), errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest, err.Error()
	case core.KindOf(err) != "":
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func (s *Server) logFailure(ctx context.Context, status int, op string, err error) {
	if status < http.StatusInternalServerError {
		return
	}
	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogError(ctx, "Request failed", err, op, nil)
}

// reportFromUpload reads the uploaded table and builds a report with the
// options from the query string and form.
func (s *Server) reportFromUpload(w http.ResponseWriter, r *http.Request) (report.Report, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	up, err := ReadUpload(r)
	if err != nil {
		return report.Report{}, "", err
	}
	defer up.Body.Close()

	opts := ParseReportOptions(requestValues(r), s.svc.Options())
	rep, err := s.svc.WithOptions(opts).FromUpload(r.Context(), up.Filename, up.Body)
	return rep, up.Filename, err
}

// requestValues merges query and form values once a multipart body has been parsed.
func requestValues(r *http.Request) url.Values {
	if r.Form != nil {
		return r.Form
	}
	return r.URL.Query()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, "")
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, message string) {
	v := indexView{
		Form:  newFormView(ParseReportOptions(requestValues(r), s.svc.Options())),
		Error: message,
	}
	if s.defaultSource != nil {
		v.HasDefault = true
		v.DefaultName = s.defaultSource.Name()
	}
	b := NewResponse().Status(status).Template(s.templates, "index.html", v)
	if err := b.Err(); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldError, err.Error(), "template", "index.html")
	}
	b.Write(w)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, source string, rep report.Report) {
	charts := s.renderer.RenderAll(rep)
	b := NewResponse().Template(s.templates, "dashboard.html", newDashboardView(source, rep, charts))
	if err := b.Err(); err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard template execution failed",
			applog.FieldError, err.Error(), "template", "dashboard.html")
	}
	b.Write(w)
}

// handleUpload renders the dashboard of an uploaded table. A rejected table
// re-renders the upload page with the warning and the error description.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	rep, name, err := s.reportFromUpload(w, r)
	if err != nil {
		status, msg := errorStatus(err)
		s.logFailure(r.Context(), status, applog.OpUpload, err)
		s.renderIndex(w, r, status, msg)
		return
	}
	s.renderDashboard(w, r, name, rep)
}

// handleDashboard renders the dashboard of the configured default input.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.defaultSource == nil {
		s.renderIndex(w, r, http.StatusNotFound, msgNoDefault)
		return
	}
	opts := ParseReportOptions(r.URL.Query(), s.svc.Options())
	rep, err := s.svc.WithOptions(opts).FromSource(r.Context(), s.defaultSource)
	if err != nil {
		status, msg := errorStatus(err)
		s.logFailure(r.Context(), status, applog.OpLoad, err)
		s.renderIndex(w, r, status, msg)
		return
	}
	s.renderDashboard(w, r, s.defaultSource.Name(), rep)
}

func (s *Server) handleAPIReportUpload(w http.ResponseWriter, r *http.Request) {
	rep, name, err := s.reportFromUpload(w, r)
	if err != nil {
		status, msg := errorStatus(err)
		s.logFailure(r.Context(), status, applog.OpUpload, err)
		if status == http.StatusUnprocessableEntity {
			JSONError(status, err).Write(w)
		} else {
			JSONError(status, errors.New(msg)).Write(w)
		}
		return
	}
	NewResponse().JSON(report.NewDocument(name, rep)).Write(w)
}

func (s *Server) handleAPIReportDefault(w http.ResponseWriter, r *http.Request) {
	if s.defaultSource == nil {
		JSONError(http.StatusNotFound, errors.New(msgNoDefault)).Write(w)
		return
	}
	opts := ParseReportOptions(r.URL.Query(), s.svc.Options())
	rep, err := s.svc.WithOptions(opts).FromSource(r.Context(), s.defaultSource)
	if err != nil {
		status, msg := errorStatus(err)
		s.logFailure(r.Context(), status, applog.OpLoad, err)
		if status == http.StatusUnprocessableEntity {
			JSONError(status, err).Write(w)
		} else {
			JSONError(status, errors.New(msg)).Write(w)
		}
		return
	}
	NewResponse().JSON(report.NewDocument(s.defaultSource.Name(), rep)).Write(w)
}

// handleExport answers an upload with the xlsx summary workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rep, _, err := s.reportFromUpload(w, r)
	if err != nil {
		status, msg := errorStatus(err)
		s.logFailure(r.Context(), status, applog.OpExport, err)
		s.renderIndex(w, r, status, msg)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, rep); err != nil {
		s.logFailure(r.Context(), http.StatusInternalServerError, applog.OpExport, err)
		ErrorResponse(http.StatusInternalServerError, msgInternal).Write(w)
		return
	}
	NewResponse().
		Attachment(ExportFilename, export.ContentType).
		Body(buf.Bytes()).
		Write(w)
}

// handleLoads lists recent load attempts from the audit store.
func (s *Server) handleLoads(w http.ResponseWriter, r *http.Request) {
	if !s.svc.AuditEnabled() {
		JSONError(http.StatusNotFound, errors.New(msgAuditOff)).Write(w)
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), defaultLoads, maxLoadsLimit)
	loads, err := s.svc.RecentLoads(r.Context(), limit)
	if err != nil {
		s.logFailure(r.Context(), http.StatusInternalServerError, applog.OpAudit, err)
		JSONError(http.StatusInternalServerError, errors.New("no se pudo leer el registro de cargas")).Write(w)
		return
	}
	if loads == nil {
		loads = []core.LoadAudit{}
	}
	NewResponse().JSON(loadJSON{Loads: loads, Count: len(loads)}).Write(w)
}
