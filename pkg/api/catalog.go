package api

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
)

var catalogFiles = map[string]bool{"items": true, "maps": true, "pois": true}

func (s *server) getCatalogFile(writer http.ResponseWriter, request *http.Request) {
	name := mux.Vars(request)["name"]
	if !catalogFiles[name] {
		writer.WriteHeader(http.StatusNotFound)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	http.ServeFile(writer, request, filepath.Join(s.dataDir, name+".json"))
}
