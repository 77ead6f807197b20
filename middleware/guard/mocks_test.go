package guard

import (
	"context"

	"github.com/goliatone/go-router"
)

// stubContext records what the guards do with a request: whether the chain
// continued, what status and body were written, and where the request was
// redirected.
type stubContext struct {
	nextCalled   bool
	jsonCode     int
	jsonBody     any
	redirectPath string
	headers      map[string]string
	path         string
	ctx          context.Context
}

func newStubContext() *stubContext {
	return &stubContext{
		headers: map[string]string{},
		ctx:     context.Background(),
	}
}

func (s *stubContext) Next() error {
	s.nextCalled = true
	return nil
}

func (s *stubContext) Context() context.Context         { return s.ctx }
func (s *stubContext) SetContext(ctx context.Context)   { s.ctx = ctx }
func (s *stubContext) Path() string                     { return s.path }
func (s *stubContext) Method() string                   { return "GET" }
func (s *stubContext) Body() []byte                     { return nil }
func (s *stubContext) Status(code int) router.Context   { s.jsonCode = code; return s }
func (s *stubContext) SendString(string) error          { return nil }
func (s *stubContext) Send([]byte) error                { return nil }
func (s *stubContext) NoContent(code int) error         { s.jsonCode = code; return nil }
func (s *stubContext) Render(string, any, ...string) error {
	return nil
}

func (s *stubContext) JSON(code int, val any) error {
	s.jsonCode = code
	s.jsonBody = val
	return nil
}

func (s *stubContext) Redirect(path string, status ...int) error {
	s.redirectPath = path
	if len(status) > 0 {
		s.jsonCode = status[0]
	}
	return nil
}

func (s *stubContext) RedirectToRoute(string, router.ViewContext, ...int) error { return nil }
func (s *stubContext) RedirectBack(string, ...int) error                        { return nil }

func (s *stubContext) SetHeader(key, val string) router.Context {
	s.headers[key] = val
	return s
}

func (s *stubContext) Header(key string) string              { return s.headers[key] }
func (s *stubContext) Get(_ string, def any) any             { return def }
func (s *stubContext) GetBool(_ string, def bool) bool       { return def }
func (s *stubContext) GetInt(_ string, def int) int          { return def }
func (s *stubContext) Set(string, any)                       {}
func (s *stubContext) Bind(any) error                        { return nil }
func (s *stubContext) BindJSON(any) error                    { return nil }
func (s *stubContext) BindXML(any) error                     { return nil }
func (s *stubContext) BindQuery(any) error                   { return nil }
func (s *stubContext) CookieParser(any) error                { return nil }
func (s *stubContext) Cookie(*router.Cookie)                 {}
func (s *stubContext) Cookies(string, ...string) string      { return "" }
func (s *stubContext) Param(string, ...string) string        { return "" }
func (s *stubContext) ParamsInt(_ string, def int) int       { return def }
func (s *stubContext) Query(_ string, def string) string     { return def }
func (s *stubContext) QueryInt(_ string, def int) int        { return def }
func (s *stubContext) Queries() map[string]string            { return nil }
func (s *stubContext) GetString(_ string, def string) string { return def }
func (s *stubContext) Locals(any, ...any) any                { return nil }
func (s *stubContext) OriginalURL() string                   { return s.path }
func (s *stubContext) OnNext(func() error)                   {}
func (s *stubContext) Referer() string                       { return "" }
