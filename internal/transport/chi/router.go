package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ListVideosParams holds the raw catalog query parameters.
// Coercion happens once in catalog.FromParams.
type ListVideosParams struct {
	Type   *string `form:"type" json:"type,omitempty"`
	Season *string `form:"season" json:"season,omitempty"`
	Q      *string `form:"q" json:"q,omitempty"`
	Text   *string `form:"text" json:"text,omitempty"`
}

// ServerInterface lists every HTTP operation of the API.
type ServerInterface interface {
	// (POST /api/login)
	Login(w http.ResponseWriter, r *http.Request)
	// (POST /api/logout)
	Logout(w http.ResponseWriter, r *http.Request)
	// (GET /api/me)
	Me(w http.ResponseWriter, r *http.Request)
	// (GET /api/videos)
	ListVideos(w http.ResponseWriter, r *http.Request, params ListVideosParams)
	// (POST /api/videos)
	CreateVideo(w http.ResponseWriter, r *http.Request)
	// (GET /api/videos/{id})
	GetVideo(w http.ResponseWriter, r *http.Request, id string)
	// (PUT /api/videos/{id})
	UpdateVideo(w http.ResponseWriter, r *http.Request, id string)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper binds path and query parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is returned when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

func (siw *ServerInterfaceWrapper) wrap(h http.Handler) http.Handler {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	return h
}

// Login operation middleware
func (siw *ServerInterfaceWrapper) Login(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.Login)).ServeHTTP(w, r)
}

// Logout operation middleware
func (siw *ServerInterfaceWrapper) Logout(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.Logout)).ServeHTTP(w, r)
}

// Me operation middleware
func (siw *ServerInterfaceWrapper) Me(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.Me)).ServeHTTP(w, r)
}

// ListVideos operation middleware
func (siw *ServerInterfaceWrapper) ListVideos(w http.ResponseWriter, r *http.Request) {
	var params ListVideosParams
	query := r.URL.Query()

	for name, dest := range map[string]**string{
		"type":   &params.Type,
		"season": &params.Season,
		"q":      &params.Q,
		"text":   &params.Text,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
			return
		}
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListVideos(w, r, params)
	})
	siw.wrap(handler).ServeHTTP(w, r)
}

// CreateVideo operation middleware
func (siw *ServerInterfaceWrapper) CreateVideo(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.CreateVideo)).ServeHTTP(w, r)
}

// GetVideo operation middleware
func (siw *ServerInterfaceWrapper) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetVideo(w, r, id)
	})
	siw.wrap(handler).ServeHTTP(w, r)
}

// UpdateVideo operation middleware
func (siw *ServerInterfaceWrapper) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.UpdateVideo(w, r, id)
	})
	siw.wrap(handler).ServeHTTP(w, r)
}

// HealthCheck operation middleware
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.HealthCheck)).ServeHTTP(w, r)
}

// Metrics operation middleware
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.Metrics)).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return "", false
	}
	return id, true
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
	// WriteMiddleware guards the mutating video routes.
	WriteMiddleware MiddlewareFunc
	// LoginMiddleware guards the login route.
	LoginMiddleware MiddlewareFunc
}

// HandlerWithOptions registers every route of si on a chi router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}
	guard := func(mw MiddlewareFunc, h http.HandlerFunc) http.Handler {
		if mw == nil {
			return h
		}
		return mw(h)
	}

	r.Group(func(r chi.Router) {
		r.Method(http.MethodPost, options.BaseURL+"/api/login", guard(options.LoginMiddleware, wrapper.Login))
		r.Post(options.BaseURL+"/api/logout", wrapper.Logout)
		r.Get(options.BaseURL+"/api/me", wrapper.Me)
		r.Get(options.BaseURL+"/api/videos", wrapper.ListVideos)
		r.Method(http.MethodPost, options.BaseURL+"/api/videos", guard(options.WriteMiddleware, wrapper.CreateVideo))
		r.Get(options.BaseURL+"/api/videos/{id}", wrapper.GetVideo)
		r.Method(http.MethodPut, options.BaseURL+"/api/videos/{id}", guard(options.WriteMiddleware, wrapper.UpdateVideo))
		r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
		r.Get(options.BaseURL+"/metrics", wrapper.Metrics)
	})
	return r
}
