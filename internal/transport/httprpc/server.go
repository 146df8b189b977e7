package httprpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

const maxRequestBody = 4 << 20

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLoggerProvider sets the provider used for request logging.
func WithServerLoggerProvider(provider interfaces.LoggerProvider) ServerOption {
	return func(s *Server) {
		s.logger = logging.TransportLogger(provider)
	}
}

// Server routes RPC operations to a container-page and a core service.
type Server struct {
	service interfaces.ContainerpageService
	core    interfaces.CoreService
	logger  interfaces.Logger
	router  chi.Router
}

// NewServer builds the router. Both services are required.
func NewServer(service interfaces.ContainerpageService, core interfaces.CoreService, opts ...ServerOption) *Server {
	if service == nil || core == nil {
		panic("httprpc: services are required")
	}
	s := &Server{service: service, core: core, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving every operation.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		err := goerrors.Wrap(errors.New(req.URL.Path), goerrors.CategoryNotFound, "unknown operation").
			WithTextCode(TextCodeUnknownOp)
		s.writeError(w, req, "", err)
	})

	r.Route(PathPrefix, func(r chi.Router) {
		svc, core := s.service, s.core

		route(s, r, OpGetElementsData, svc.GetElementsData)
		route(s, r, OpGetNewElementData, svc.GetNewElementData)
		route(s, r, OpCopyElement, svc.CopyElement)
		route(s, r, OpCheckCreateNewElement, svc.CheckCreateNewElement)
		route(s, r, OpCreateNewElement, svc.CreateNewElement)
		route(s, r, OpSaveContainerpage, svc.SaveContainerpage)
		route(s, r, OpSaveGroupContainer, svc.SaveGroupContainer)
		route(s, r, OpGetFavoriteList, svc.GetFavoriteList)
		route(s, r, OpGetRecentList, svc.GetRecentList)
		route(s, r, OpSaveFavoriteList, func(ctx context.Context, in idsPayload) (empty, error) {
			return empty{}, svc.SaveFavoriteList(ctx, in.IDs)
		})
		route(s, r, OpAddToFavoriteList, func(ctx context.Context, in idPayload) (empty, error) {
			return empty{}, svc.AddToFavoriteList(ctx, in.ID)
		})
		route(s, r, OpAddToRecentList, func(ctx context.Context, in idPayload) (empty, error) {
			return empty{}, svc.AddToRecentList(ctx, in.ID)
		})
		route(s, r, OpGetElementsLockedForPublishing, func(ctx context.Context, in idsPayload) ([]shared.ClientID, error) {
			return svc.GetElementsLockedForPublishing(ctx, in.IDs)
		})
		route(s, r, OpSaveImageValue, noResult(svc.SaveImageValue))

		route(s, r, OpLockAndCheckModification, func(ctx context.Context, in lockPayload) (shared.LockInfo, error) {
			return core.LockAndCheckModification(ctx, in.StructureID, in.LastModified)
		})
		route(s, r, OpUnlock, func(ctx context.Context, in structurePayload) (empty, error) {
			return empty{}, core.Unlock(ctx, in.StructureID)
		})
		route(s, r, OpContextMenuEntries, func(ctx context.Context, in structurePayload) ([]shared.ContextMenuEntry, error) {
			return core.ContextMenuEntries(ctx, in.StructureID)
		})
		route(s, r, OpSetToolbarVisible, func(ctx context.Context, in toolbarPayload) (empty, error) {
			return empty{}, core.SetToolbarVisible(ctx, in.Visible)
		})
	})
	return r
}

func route[Req, Resp any](s *Server, r chi.Router, op string, call func(context.Context, Req) (Resp, error)) {
	r.Post("/"+op, func(w http.ResponseWriter, req *http.Request) {
		started := time.Now()
		var in Req
		if err := decodeJSON(w, req, &in); err != nil {
			s.writeError(w, req, op, badRequest(err))
			return
		}
		ctx := logging.ContextWithFields(req.Context(), requestFields(req, op))
		out, err := call(ctx, in)
		if err != nil {
			s.writeError(w, req, op, err)
			return
		}
		writeJSON(w, http.StatusOK, resultEnvelope[Resp]{Result: out})
		s.requestLogger(req, op).Debug("transport.rpc.served", "duration_ms", time.Since(started).Milliseconds())
	})
}

func noResult[Req any](call func(context.Context, Req) error) func(context.Context, Req) (empty, error) {
	return func(ctx context.Context, in Req) (empty, error) {
		return empty{}, call(ctx, in)
	}
}

func requestFields(req *http.Request, op string) map[string]any {
	fields := map[string]any{"operation": op}
	if id := middleware.GetReqID(req.Context()); id != "" {
		fields["request_id"] = id
	}
	return fields
}

func (s *Server) requestLogger(req *http.Request, op string) interfaces.Logger {
	return logging.WithFields(s.logger, requestFields(req, op))
}

func (s *Server) writeError(w http.ResponseWriter, req *http.Request, op string, err error) {
	status, body := encodeError(err)
	logger := s.requestLogger(req, op)
	if status >= http.StatusInternalServerError {
		logger.Error("transport.rpc.failed", "error", err, "status", status)
	} else {
		logger.Debug("transport.rpc.rejected", "error", err, "status", status, "text_code", body.TextCode)
	}
	writeJSON(w, status, errorEnvelope{Error: body})
}

// decodeJSON reads the request body into target. An empty body leaves the
// zero value in place.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
