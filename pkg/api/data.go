package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/astromechza/tld-buddy/pkg/kv"
	"github.com/astromechza/tld-buddy/pkg/model"
)

const maxDataBody = 8 << 20

func (s *server) getData(writer http.ResponseWriter, request *http.Request) {
	raw, err := s.store.Get(request.Context(), DataKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.metrics.dataReads.WithLabelValues("miss").Inc()
		s.writeJSON(writer, http.StatusOK, model.Default())
		return
	case err != nil:
		s.metrics.dataReads.WithLabelValues("error").Inc()
		s.logger.Error("failed to read app data", "err", err)
		s.writeJSON(writer, http.StatusOK, model.Default())
		return
	}
	s.metrics.dataReads.WithLabelValues("hit").Inc()
	writer.Header().Set("Content-Type", "application/json")
	if _, err := writer.Write(raw); err != nil {
		s.logger.Error("failed to write out", "err", err)
	}
}

func (s *server) putData(writer http.ResponseWriter, request *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxDataBody))
	if err != nil {
		s.metrics.dataWrites.WithLabelValues("invalid").Inc()
		s.writeError(writer, http.StatusBadRequest, "Invalid body")
		return
	}
	compact := new(bytes.Buffer)
	if err := json.Compact(compact, raw); err != nil {
		s.metrics.dataWrites.WithLabelValues("invalid").Inc()
		s.writeError(writer, http.StatusBadRequest, "Invalid body")
		return
	}
	if err := s.store.Set(request.Context(), DataKey, compact.Bytes()); err != nil {
		s.metrics.dataWrites.WithLabelValues("error").Inc()
		s.logger.Error("failed to save app data", "err", err)
		s.writeError(writer, http.StatusInternalServerError, "Failed to save data")
		return
	}
	s.metrics.dataWrites.WithLabelValues("ok").Inc()
	s.writeJSON(writer, http.StatusOK, map[string]bool{"ok": true})
}
