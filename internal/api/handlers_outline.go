package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/docstruct/internal/outline"
	"github.com/dgallion1/docstruct/internal/session"
)

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Outline())
}

// handleFold answers the range a heading would hide; range is null for a
// position that does not hold a heading.
func (s *Server) handleFold(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(r.URL.Query().Get("pos"))
	if err != nil || pos < 0 {
		jsonError(w, "pos must be a non-negative integer", http.StatusBadRequest)
		return
	}
	sess := sessionFrom(r)
	var rng *outline.FoldRange
	if fr, ok := sess.Fold(pos); ok {
		rng = &fr
	}
	writeJSON(w, http.StatusOK, map[string]any{"pos": pos, "range": rng})
}

type numberingResponse struct {
	Version uint64          `json:"version"`
	Labels  []outline.Label `json:"labels"`
}

func numbering(sess *session.Session, n outline.Numbering) numberingResponse {
	labels := n.Labels()
	if labels == nil {
		labels = []outline.Label{}
	}
	return numberingResponse{Version: sess.Version(), Labels: labels}
}

func (s *Server) handleNumbering(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, numbering(sess, sess.Numbering()))
}

func (s *Server) handleRecomputeNumbering(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, numbering(sess, sess.RecomputeNumbering()))
}

func (s *Server) handleToggleHeading(w http.ResponseWriter, r *http.Request) {
	pos, err := intParam(r, "pos")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := sessionFrom(r)
	commit, applied := sess.ToggleHeading(pos)
	writeCommit(w, sess, commit, applied)
}

func (s *Server) handleUpdateHeading(w http.ResponseWriter, r *http.Request) {
	pos, err := intParam(r, "pos")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var patch session.HeadingPatch
	if !decodeJSON(w, r, maxJSONBody, &patch) {
		return
	}
	sess := sessionFrom(r)
	commit, applied := sess.UpdateHeading(pos, patch)
	writeCommit(w, sess, commit, applied)
}
