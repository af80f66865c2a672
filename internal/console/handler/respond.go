package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/xela07ax/paulis-place/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError превращает ошибку домена в JSON-ответ. Хранилище знает только NotFound.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrMeetingNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Meeting not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// decodeLenient читает тело запроса; пустое или битое тело оставляет dst нетронутым.
func decodeLenient(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if !json.Valid(body) {
		return errors.New("request body is not valid JSON")
	}
	return json.Unmarshal(body, dst)
}
