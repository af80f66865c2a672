package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/domain"
)

// Forwarder — все, что нужно обработчикам от клиента upstream.
type Forwarder interface {
	Do(ctx context.Context, method Method, path string, payload json.RawMessage) Result
}

type Handler struct {
	upstream Forwarder
	logger   *zap.Logger
}

func NewHandler(upstream Forwarder, logger *zap.Logger) *Handler {
	return &Handler{upstream: upstream, logger: logger.Named("bridge-handler")}
}

// Routes монтируется на /meeting
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)
	r.Get("/list", h.forward(MethodGet, "/api/meetings"))
	r.Post("/create", h.forwardBody("/api/meetings"))
	r.Get("/agents", h.Agents)
	r.Get("/integrations", h.forward(MethodGet, "/api/integrations/status"))
	r.Post("/from-camel", h.FromCamel)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.forwardMeeting(MethodGet, ""))
		r.Post("/start", h.forwardMeeting(MethodPost, "/start"))
		r.Post("/end", h.forwardMeeting(MethodPost, "/end"))
		r.Get("/messages", h.forwardMeeting(MethodGet, "/messages"))
		r.Post("/messages", h.forwardMeeting(MethodPost, "/messages"))
		r.Post("/agent-discuss", h.forwardMeeting(MethodPost, "/agent-discuss"))
	})

	return r
}

// Status GET /meeting/status — статус upstream плюс отметка, что сам bridge жив
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	res := h.upstream.Do(r.Context(), MethodGet, "/api/status", nil)
	writeJSON(w, res.Status, map[string]any{
		"devika_status": res.Body,
		"bridge":        "online",
	})
}

// Agents GET /meeting/agents — query (show_hidden) уходит как есть
func (h *Handler) Agents(w http.ResponseWriter, r *http.Request) {
	path := "/api/agents"
	if q := r.URL.RawQuery; q != "" {
		path += "?" + q
	}
	writeResult(w, h.upstream.Do(r.Context(), MethodGet, path, nil))
}

// FromCamel POST /meeting/from-camel — CAMEL-сессия превращается в обычную встречу на upstream
func (h *Handler) FromCamel(w http.ResponseWriter, r *http.Request) {
	var req domain.CamelRequest
	if body := readPayload(r); body != nil {
		_ = json.Unmarshal(body, &req)
	}
	session := req.Session()

	create, _ := json.Marshal(map[string]any{
		"title":         session.Title(),
		"agenda":        session.Task,
		"invite_agents": []string{},
	})
	res := h.upstream.Do(r.Context(), MethodPost, "/api/meetings", create)
	if res.Status == http.StatusOK || res.Status == http.StatusCreated {
		res.Body = stampProvenance(res.Body, session.SessionID, h.logger)
	}
	writeResult(w, res)
}

func (h *Handler) forward(method Method, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, h.upstream.Do(r.Context(), method, path, nil))
	}
}

func (h *Handler) forwardBody(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, h.upstream.Do(r.Context(), MethodPost, path, orEmptyObject(readPayload(r))))
	}
}

func (h *Handler) forwardMeeting(method Method, suffix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := "/api/meetings/" + url.PathEscape(chi.URLParam(r, "id")) + suffix

		var payload json.RawMessage
		if method.hasBody() {
			payload = orEmptyObject(readPayload(r))
		}
		writeResult(w, h.upstream.Do(r.Context(), method, path, payload))
	}
}

// stampProvenance дописывает camel_session_id и adapted_from во вложенный "meeting",
// а если его нет — в сам объект ответа. Не-объект возвращается без изменений.
func stampProvenance(body json.RawMessage, sessionID any, logger *zap.Logger) json.RawMessage {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return body
	}

	target := obj
	if meeting, ok := obj["meeting"].(map[string]any); ok {
		target = meeting
	}
	target["camel_session_id"] = sessionID
	target["adapted_from"] = domain.AdaptedFromCamel

	out, err := json.Marshal(obj)
	if err != nil {
		logger.Error("failed to re-encode stamped meeting", zap.Error(err))
		return body
	}
	return out
}

// readPayload: пустое или битое тело — nil
func readPayload(r *http.Request) json.RawMessage {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	return body
}

func orEmptyObject(p json.RawMessage) json.RawMessage {
	if p == nil || bytes.Equal(p, []byte("null")) {
		return json.RawMessage("{}")
	}
	return p
}

func writeResult(w http.ResponseWriter, res Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
