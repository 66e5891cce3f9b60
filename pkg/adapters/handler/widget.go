package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
	"github.com/wadjakorntonsri/go-custom-links/pkg/core/services"
	"github.com/wadjakorntonsri/go-custom-links/pkg/logger"
	"go.uber.org/zap"
)

type WidgetHandler struct {
	registry *Registry
	logger   *zap.Logger
}

func NewWidgetHandler(registry *Registry, log *zap.Logger) *WidgetHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WidgetHandler{registry: registry, logger: log}
}

func isEmbedded(r *http.Request) bool {
	return r.FormValue("host") == embeddingTeams
}

func widgetURL(embedded bool) string {
	if embedded {
		return "/widget?host=" + embeddingTeams
	}
	return "/widget"
}

// Page renders the widget and, when open, the side panel
func (h *WidgetHandler) Page(w http.ResponseWriter, r *http.Request) {
	embedded := isEmbedded(r)
	inst, release, err := h.registry.Acquire(r.Context(), UserEmail(r.Context()), embedded)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer release()

	// the embedding flag may differ from the last render
	if err := inst.manager.Render(); err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	snap := inst.manager.Snapshot()
	if err := writePage(&buf, inst.surface.Markup(), embedded, snap.PaneOpen, inst.manager.Form()); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Intent handles the Add Link and per-row Edit buttons
func (h *WidgetHandler) Intent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	embedded := isEmbedded(r)

	inst, release, err := h.registry.Acquire(r.Context(), UserEmail(r.Context()), embedded)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer release()

	switch {
	case r.PostFormValue(services.IntentField) == services.IntentAdd:
		err = inst.manager.OpenAdd()
	case r.PostFormValue(services.EditField) != "":
		index, convErr := strconv.Atoi(r.PostFormValue(services.EditField))
		if convErr != nil {
			http.Error(w, "Invalid index", http.StatusBadRequest)
			return
		}
		err = inst.manager.OpenEdit(index)
	default:
		http.Error(w, "Unknown intent", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, widgetURL(embedded), http.StatusSeeOther)
}

// Pane handles the side panel buttons
func (h *WidgetHandler) Pane(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	embedded := isEmbedded(r)

	inst, release, err := h.registry.Acquire(r.Context(), UserEmail(r.Context()), embedded)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer release()

	action := r.PostFormValue("action")
	switch action {
	case domain.ActionAddLink:
		err = inst.manager.Submit(r.Context(), r.PostFormValue(domain.FieldLinkTitle), r.PostFormValue(domain.FieldLinkURL))
	case domain.ActionDeleteLink:
		err = inst.manager.DeleteLink(r.Context())
	case domain.ActionClose:
		err = inst.manager.ClosePane()
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Debug("pane action handled",
		zap.String(logger.FieldTraceID, TraceID(r.Context())),
		zap.String(logger.FieldAction, action),
	)
	http.Redirect(w, r, widgetURL(embedded), http.StatusSeeOther)
}

// Links lists the in-memory links of the signed-in user
func (h *WidgetHandler) Links(w http.ResponseWriter, r *http.Request) {
	inst, release, err := h.registry.Acquire(r.Context(), UserEmail(r.Context()), isEmbedded(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap := inst.manager.Snapshot()
	release()

	resp := map[string]interface{}{
		"data":  snap.Links,
		"total": len(snap.Links),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Form describes the side panel for the current edit cursor
func (h *WidgetHandler) Form(w http.ResponseWriter, r *http.Request) {
	inst, release, err := h.registry.Acquire(r.Context(), UserEmail(r.Context()), isEmbedded(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap := inst.manager.Snapshot()
	form := inst.manager.Form()
	release()

	resp := map[string]interface{}{
		"pane_open": snap.PaneOpen,
		"editing":   snap.Editing,
		"form":      form,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *WidgetHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrIdentityLookupFailed):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrIndexOutOfRange):
		status = http.StatusBadRequest
	}

	h.logger.Error("widget request failed",
		zap.String(logger.FieldTraceID, TraceID(r.Context())),
		zap.String(logger.FieldEmail, UserEmail(r.Context())),
		zap.String(logger.FieldPath, r.URL.Path),
		zap.Int(logger.FieldStatus, status),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(status), status)
}
