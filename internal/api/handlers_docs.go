package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/parser"
	"github.com/dgallion1/docstruct/internal/session"
)

type createDocumentRequest struct {
	Title string        `json:"title" validate:"max=256"`
	Doc   *doctree.Node `json:"doc" validate:"required"`
}

type createDocumentResponse struct {
	DocID   string `json:"doc_id"`
	Version uint64 `json:"version"`
	Title   string `json:"title"`
	Created bool   `json:"created"`
}

// handleCreateDocument opens a session from an uploaded file or from a
// document tree posted as JSON. Identical content reuses the open session.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var (
		doc      *doctree.Document
		filename string
		hash     string
		ok       bool
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		doc, filename, hash, ok = s.parseUpload(w, r)
	} else {
		doc, hash, ok = s.decodeDocument(w, r)
	}
	if !ok {
		return
	}

	sess, created := s.store.Create(doc, filename, hash)
	code := http.StatusOK
	if created {
		code = http.StatusCreated
		s.log.Info("document opened", "doc_id", sess.ID, "filename", filename, "title", sess.Title)
	}
	info := sess.Info()
	writeJSON(w, code, createDocumentResponse{
		DocID:   info.ID,
		Version: info.Version,
		Title:   info.Title,
		Created: created,
	})
}

func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (*doctree.Document, string, string, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", "", false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	p, err := parser.ForFile(filename, parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, "", "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", "", false
	}

	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("parse failed", "filename", filename, "error", err)
		jsonError(w, "failed to parse document: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, "", "", false
	}
	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		doc.Title = title
	}
	return doc, filename, session.ContentHashHex(data), true
}

func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (*doctree.Document, string, bool) {
	var req createDocumentRequest
	if !decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return nil, "", false
	}
	if !req.Doc.Is(doctree.TypeDoc) {
		jsonError(w, "doc must be a document root", http.StatusBadRequest)
		return nil, "", false
	}
	canonical, err := json.Marshal(req.Doc)
	if err != nil {
		jsonError(w, "failed to encode document", http.StatusInternalServerError)
		return nil, "", false
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}
	return parser.Normalize(title, req.Doc), session.ContentHashHex(canonical), true
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.store.List()})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Snapshot())
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.store.Delete(sess.ID)
	s.log.Info("document closed", "doc_id", sess.ID)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	commit, applied := sess.Cleanup()
	writeCommit(w, sess, commit, applied)
}

type commitResponse struct {
	Applied bool `json:"applied"`
	session.Commit
}

// writeCommit reports an edit. Rejected edits are not errors: they answer
// 200 with applied false and the unchanged version.
func writeCommit(w http.ResponseWriter, sess *session.Session, commit session.Commit, applied bool) {
	if !applied {
		commit = session.Commit{Version: sess.Version()}
	}
	writeJSON(w, http.StatusOK, commitResponse{Applied: applied, Commit: commit})
}
