package handler

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/service"
)

const (
	dispatchArchiveName = "派車單里程.zip"
	exportNotFoundMsg   = "export source not found"
)

// ExportDispatch handles GET /exports/dispatch.
// All dispatch sheets for the (optionally date-filtered) log are returned as
// one zip archive; X-Document-Count carries the number of sheets. An empty
// log is a 422 with code "empty_input".
func (s *Server) ExportDispatch(w http.ResponseWriter, r *http.Request) {
	filter, err := filterParams(r)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	var buf bytes.Buffer
	sink := service.NewZipSink(&buf)
	n, err := s.exports.Dispatch(r.Context(), filter, sink)
	if err != nil {
		s.serviceError(w, r, err, exportNotFoundMsg)
		return
	}
	if err := sink.Close(); err != nil {
		s.serviceError(w, r, err, exportNotFoundMsg)
		return
	}

	w.Header().Set("X-Document-Count", strconv.Itoa(n))
	writeAttachment(w, "application/zip", dispatchArchiveName, buf.Bytes())
}

// ExportFuelLog handles GET /exports/fuel-log.
// The single fuel log workbook is returned directly; an empty log yields 204.
func (s *Server) ExportFuelLog(w http.ResponseWriter, r *http.Request) {
	filter, err := filterParams(r)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	sink := &service.CollectSink{}
	n, err := s.exports.FuelLog(r.Context(), filter, sink)
	if err != nil {
		s.serviceError(w, r, err, exportNotFoundMsg)
		return
	}
	docs := sink.Documents()
	if n == 0 || len(docs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	doc := docs[0]
	w.Header().Set("X-Document-Count", strconv.Itoa(n))
	writeAttachment(w, domain.ContentTypeXLSX, doc.Filename, doc.Data)
}

// writeAttachment sends data as a download. Non-ASCII filenames are encoded
// per RFC 2231 by mime.FormatMediaType.
func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
