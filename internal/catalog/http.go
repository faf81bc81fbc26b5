package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniCatalog/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 1 * time.Second

	msgNotFound = "Product not found"
	msgUpdated  = "Product updated successfully"
	msgDeleted  = "Product deleted successfully"
	msgBadBody  = "invalid request body"
	msgServer   = "server error"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

type createReq struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       Optional[Number] `json:"price"`
	ImageURL    string           `json:"imageUrl"`
}

type editReq struct {
	ID          json.RawMessage  `json:"id"`
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	Price       Optional[Number] `json:"price"`
	ImageURL    Optional[string] `json:"imageUrl"`
}

func (e editReq) patch() Patch {
	p := Patch{
		Name:        e.Name,
		Description: e.Description,
		ImageURL:    e.ImageURL,
	}
	if e.Price.Set {
		p.Price = Some(float64(e.Price.Value))
	}
	return p
}

// id reads the body id. Like a path id, anything that is not an integer
// names no product.
func (e editReq) id() (int64, bool) {
	raw := bytes.TrimSpace(e.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var n Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n.Int()
}

type updateResp struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.logger().Error("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, msgServer)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	p, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "get product failed", id, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := decodeJSON(w, r, &req); err != nil {
		s.logger().Debug("bad create body", zap.Error(err))
		kit.WriteError(w, r, http.StatusBadRequest, msgBadBody)
		return
	}

	p, err := s.Store.Insert(r.Context(), NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       float64(req.Price.Value),
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		s.logger().Error("insert product failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, msgServer)
		return
	}

	s.logger().Info("product created", zap.Int64("id", p.ID))
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	var req editReq
	if err := decodeJSON(w, r, &req); err != nil {
		s.logger().Debug("bad edit body", zap.Error(err))
		kit.WriteError(w, r, http.StatusBadRequest, msgBadBody)
		return
	}

	id, ok := req.id()
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	p, err := s.Store.PatchByID(r.Context(), id, req.patch())
	if err != nil {
		s.writeStoreError(w, r, "patch product failed", id, err)
		return
	}

	s.logger().Info("product updated", zap.Int64("id", id))
	kit.WriteJSON(w, http.StatusOK, updateResp{Message: msgUpdated, Product: p})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	if err := s.Store.DeleteByID(r.Context(), id); err != nil {
		s.writeStoreError(w, r, "delete product failed", id, err)
		return
	}

	s.logger().Info("product deleted", zap.Int64("id", id))
	kit.WriteMessage(w, http.StatusOK, msgDeleted)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, logMsg string, id int64, err error) {
	if errors.Is(err, ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, msgNotFound)
		return
	}
	s.logger().Error(logMsg, zap.Error(err), zap.Int64("id", id))
	kit.WriteError(w, r, http.StatusInternalServerError, msgServer)
}

// pathID reads {id}. Anything that is not an integer cannot name a product.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeJSON reads one JSON object into dst. An empty body counts as {}.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("extra data after json object")
	}
	return nil
}
