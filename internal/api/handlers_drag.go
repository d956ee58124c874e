package api

import (
	"net/http"

	"github.com/dgallion1/docstruct/internal/columns"
	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/drop"
	"github.com/dgallion1/docstruct/internal/hotzone"
	"github.com/dgallion1/docstruct/internal/session"
)

type hoverRequest struct {
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Layout *hotzone.Layout `json:"layout" validate:"required"`
}

type hoverResponse struct {
	session.Guides
	Version uint64 `json:"version"`
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}
	sess := sessionFrom(r)
	guides := sess.Hover(req.Layout, req.X, req.Y)
	writeJSON(w, http.StatusOK, hoverResponse{Guides: guides, Version: guides.Vertical.Version})
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).DragEnd()
	w.WriteHeader(http.StatusNoContent)
}

// dropRequest names the dragged blocks either as the range [from, to) of
// the document or, for content dragged in from elsewhere, as nodes.
type dropRequest struct {
	From    int             `json:"from" validate:"min=0"`
	To      int             `json:"to" validate:"min=0,gtefield=From"`
	Move    bool            `json:"move"`
	Content []*doctree.Node `json:"content" validate:"max=64"`
}

type dropResponse struct {
	Applied bool                    `json:"applied"`
	Case    drop.Case               `json:"case,omitempty"`
	Reason  string                  `json:"reason,omitempty"`
	Version uint64                  `json:"version"`
	Cleanup []columns.CleanupAction `json:"cleanup,omitempty"`
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	for _, n := range req.Content {
		if n == nil || !n.IsBlock() {
			jsonError(w, "content must be a list of blocks", http.StatusBadRequest)
			return
		}
	}

	out := sessionFrom(r).Drop(session.DropRequest{
		From:    req.From,
		To:      req.To,
		Move:    req.Move,
		Content: req.Content,
	})
	resp := dropResponse{
		Applied: out.Applied,
		Case:    out.Case,
		Version: out.Version,
		Cleanup: out.Cleanup,
	}
	if out.Reason != nil {
		resp.Reason = out.Reason.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
