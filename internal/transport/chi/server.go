package chi

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/riverdub/riverdub/internal/domain"
	"github.com/riverdub/riverdub/internal/domain/search/catalog"
	authuc "github.com/riverdub/riverdub/internal/usecase/auth"
	cataloguc "github.com/riverdub/riverdub/internal/usecase/catalog"
	healthuc "github.com/riverdub/riverdub/internal/usecase/health"
	videouc "github.com/riverdub/riverdub/internal/usecase/video"
)

// Error codes returned as {"error": "<code>"}.
const (
	codeBadRequest         = "bad_request"
	codeNotFound           = "not_found"
	codeAlreadyExists      = "already_exists"
	codeFileRequired       = "file_required"
	codeFieldsRequired     = "fields_required"
	codeInvalidType        = "invalid_type"
	codeInvalidNumbering   = "invalid_numbering"
	codeUploadTooLarge     = "upload_too_large"
	codeInvalidCredentials = "invalid_credentials"
	codeUnauthorized       = "unauthorized"
	codeRateLimited        = "rate_limited"
	codeInternal           = "internal_error"
)

// multipartMemory is the in-memory part of a parsed upload; the rest spools to disk.
const multipartMemory = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server implements ServerInterface.
type Server struct {
	videos        *videouc.Service
	catalog       *cataloguc.Service
	auth          *authuc.Service
	health        *healthuc.Service
	presenter     *Presenter
	logger        *zap.Logger
	maxBodyBytes  int64
	secureCookie  bool
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// Options tune request handling.
type Options struct {
	// MaxUploadBytes caps a single uploaded file. The whole request may carry two.
	MaxUploadBytes int64
	// SecureCookie sets the Secure flag on the session cookie.
	SecureCookie bool
}

// NewServer creates an HTTP API server.
func NewServer(
	videos *videouc.Service,
	catalogSvc *cataloguc.Service,
	auth *authuc.Service,
	health *healthuc.Service,
	presenter *Presenter,
	logger *zap.Logger,
	opts Options,
) *Server {
	s := &Server{
		videos:       videos,
		catalog:      catalogSvc,
		auth:         auth,
		health:       health,
		presenter:    presenter,
		logger:       logger,
		maxBodyBytes: 2*opts.MaxUploadBytes + multipartMemory,
		secureCookie: opts.SecureCookie,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrFileRequired, http.StatusBadRequest, codeFileRequired),
		sentinelHandler(domain.ErrFieldsRequired, http.StatusBadRequest, codeFieldsRequired),
		sentinelHandler(domain.ErrInvalidType, http.StatusBadRequest, codeInvalidType),
		sentinelHandler(domain.ErrInvalidNumbering, http.StatusBadRequest, codeInvalidNumbering),
		sentinelHandler(domain.ErrUploadTooLarge, http.StatusRequestEntityTooLarge, codeUploadTooLarge),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, codeInvalidCredentials),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		maxBytesHandler,
	}
	return s
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	OK        bool   `json:"ok"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// Login handles POST /api/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest)
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{
		OK:        true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout handles POST /api/logout.
func (s *Server) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// Me handles GET /api/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.Verify(r.Context(), sessionToken(r)); err != nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// ListVideos handles GET /api/videos.
func (s *Server) ListVideos(w http.ResponseWriter, r *http.Request, params ListVideosParams) {
	q := catalog.FromParams(catalog.Params{
		Type:    deref(params.Type),
		Season:  deref(params.Season),
		Text:    deref(params.Q),
		AltText: deref(params.Text),
	})

	videos, err := s.catalog.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenter.Videos(videos))
}

// GetVideo handles GET /api/videos/{id}.
func (s *Server) GetVideo(w http.ResponseWriter, r *http.Request, id string) {
	v, err := s.videos.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenter.Video(&v))
}

// CreateVideo handles POST /api/videos.
func (s *Server) CreateVideo(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseUpload(w, r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	defer form.close()

	v, err := s.videos.Create(r.Context(), form.input, form.file, form.preview)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenter.Video(&v))
}

// UpdateVideo handles PUT /api/videos/{id}.
func (s *Server) UpdateVideo(w http.ResponseWriter, r *http.Request, id string) {
	form, err := s.parseUpload(w, r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	defer form.close()

	v, err := s.videos.Update(r.Context(), id, form.input, form.file, form.preview)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenter.Video(&v))
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// uploadForm is the bound multipart body of a create or update request.
type uploadForm struct {
	input   videouc.Input
	file    *videouc.Upload
	preview *videouc.Upload
	closers []multipart.File
	mf      *multipart.Form
}

type uploadFields struct {
	Title       *string `json:"title"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Threshold   *string `json:"threshold"`
	Season      *string `json:"season"`
	Episode     *string `json:"episode"`
}

func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (*uploadForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		// Missing or malformed multipart body has no file.
		return nil, domain.ErrFileRequired
	}

	var fields uploadFields
	if err := runtime.BindForm(&fields, r.MultipartForm.Value, nil, nil); err != nil {
		_ = r.MultipartForm.RemoveAll()
		return nil, domain.ErrFieldsRequired
	}

	form := &uploadForm{
		input: videouc.Input{
			Title:       deref(fields.Title),
			Type:        deref(fields.Type),
			Description: deref(fields.Description),
			Threshold:   deref(fields.Threshold),
			Season:      deref(fields.Season),
			Episode:     deref(fields.Episode),
		},
		mf: r.MultipartForm,
	}

	var err error
	if form.file, err = form.open("file"); err != nil {
		form.close()
		return nil, err
	}
	if form.preview, err = form.open("preview"); err != nil {
		form.close()
		return nil, err
	}
	return form, nil
}

func (f *uploadForm) open(field string) (*videouc.Upload, error) {
	headers := f.mf.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	h := headers[0]
	file, err := h.Open()
	if err != nil {
		return nil, err
	}
	f.closers = append(f.closers, file)
	return &videouc.Upload{
		Name:        h.Filename,
		ContentType: h.Header.Get("Content-Type"),
		Body:        file,
	}, nil
}

func (f *uploadForm) close() {
	for _, c := range f.closers {
		_ = c.Close()
	}
	if f.mf != nil {
		_ = f.mf.RemoveAll()
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, ErrorResponse{Error: code})
}

// WriteBadRequest is the ErrorHandlerFunc for parameters that fail to bind.
func WriteBadRequest(w http.ResponseWriter, _ *http.Request, _ error) {
	writeError(w, http.StatusBadRequest, codeBadRequest)
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code)
		return true
	}
}

func maxBytesHandler(w http.ResponseWriter, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, codeUploadTooLarge)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Debug("request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal)
}
