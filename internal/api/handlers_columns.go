package api

import (
	"net/http"

	"github.com/dgallion1/docstruct/internal/session"
)

type addColumnRequest struct {
	AfterIndex *int `json:"after_index" validate:"required,min=-1,max=6"`
}

type removeColumnRequest struct {
	Index *int `json:"index" validate:"required,min=0,max=6"`
}

type resizeRequest struct {
	LeftIndex        *int    `json:"left_index" validate:"required,min=0,max=5"`
	DeltaPx          float64 `json:"delta_px"`
	ContainerWidthPx float64 `json:"container_width_px" validate:"gt=0"`
}

type layoutRequest struct {
	Layout string `json:"layout" validate:"required,oneof=grid stacked"`
}

// columnEdit decodes req, resolves the {pos} container position and hands
// both to apply.
func (s *Server) columnEdit(w http.ResponseWriter, r *http.Request, req any, apply func(sess *session.Session, pos int) (session.Commit, bool)) {
	pos, err := intParam(r, "pos")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req != nil && !decodeJSON(w, r, maxJSONBody, req) {
		return
	}
	sess := sessionFrom(r)
	commit, applied := apply(sess, pos)
	writeCommit(w, sess, commit, applied)
}

func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var req addColumnRequest
	s.columnEdit(w, r, &req, func(sess *session.Session, pos int) (session.Commit, bool) {
		return sess.AddColumn(pos, *req.AfterIndex)
	})
}

func (s *Server) handleRemoveColumn(w http.ResponseWriter, r *http.Request) {
	var req removeColumnRequest
	s.columnEdit(w, r, &req, func(sess *session.Session, pos int) (session.Commit, bool) {
		return sess.RemoveColumn(pos, *req.Index)
	})
}

func (s *Server) handleResizeColumns(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	s.columnEdit(w, r, &req, func(sess *session.Session, pos int) (session.Commit, bool) {
		return sess.ResizeColumns(pos, *req.LeftIndex, req.DeltaPx, req.ContainerWidthPx)
	})
}

func (s *Server) handleColumnLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	s.columnEdit(w, r, &req, func(sess *session.Session, pos int) (session.Commit, bool) {
		return sess.SetColumnLayout(pos, req.Layout)
	})
}

func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	commit, applied := sess.RebalanceColumns()
	writeCommit(w, sess, commit, applied)
}
