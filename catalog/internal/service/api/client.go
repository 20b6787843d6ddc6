package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/session"
	"github.com/Astemirdum/library-catalog/pkg/circuit_breaker"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	HeaderCSRFToken = "X-CSRFToken"
	CookieCSRFToken = "csrftoken"
	CookieSessionID = "sessionid"

	tokenPrefix = "Token "
)

// Request describes one call to the backend. Path is relative to the
// configured base URL. Public requests carry no credentials and never fail
// for lack of them.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   *Form
	Public bool
}

// Form is a multipart body; fields keep their order.
type Form struct {
	Fields []Field
	Files  []File
}

type Field struct {
	Name  string
	Value string
}

type File struct {
	Field string
	Name  string
	Data  []byte
}

func (f *Form) Add(name, value string) {
	f.Fields = append(f.Fields, Field{Name: name, Value: value})
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := bytes.NewBuffer(nil)
	w := multipart.NewWriter(buf)
	for _, fld := range f.Fields {
		if err := w.WriteField(fld.Name, fld.Value); err != nil {
			return nil, "", errors.Wrapf(err, "form field %s", fld.Name)
		}
	}
	for _, file := range f.Files {
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", errors.Wrapf(err, "form file %s", file.Field)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", errors.Wrapf(err, "form file %s", file.Field)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close form")
	}
	return buf, w.FormDataContentType(), nil
}

// Client is the single gateway to the catalog backend.
type Client struct {
	log     *zap.Logger
	client  *http.Client
	cfg     config.API
	base    *url.URL
	media   *url.URL
	sess    *session.Session
	cb      circuit_breaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewClient(log *zap.Logger, cfg config.API, sess *session.Session) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	media, err := url.Parse(cfg.MediaURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse media url")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "cookie jar")
	}
	if cfg.AuthMode == config.AuthSession {
		jar.SetCookies(base, sess.Cookies())
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	return &Client{
		log:     log.Named("api"),
		client:  &http.Client{Timeout: cfg.Timeout, Jar: jar},
		cfg:     cfg,
		base:    base,
		media:   media,
		sess:    sess,
		cb:      circuit_breaker.NewFromConfig(cfg.Breaker),
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

func (c *Client) Session() *session.Session {
	return c.sess
}

func (c *Client) CB() circuit_breaker.CircuitBreaker {
	return c.cb
}

func (c *Client) AuthMode() config.AuthMode {
	return c.cfg.AuthMode
}

// Do sends r and decodes a 2xx JSON body into out. out may be nil; 204 and
// empty bodies are never decoded. Non-2xx responses come back as
// *errs.APIError.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}
	if err := c.authorize(req, r.Public); err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}

	var (
		status int
		body   []byte
		start  = time.Now()
	)
	err = c.cb.Call(func() error {
		resp, err := c.client.Do(req)
		if err != nil {
			return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
		}
		defer resp.Body.Close()
		status = resp.StatusCode
		c.mirrorCookies()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "read response")
		}
		if status >= http.StatusInternalServerError {
			return newAPIError(status, body)
		}
		return nil
	})
	c.log.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", req.Header.Get(echo.HeaderXRequestID)),
		zap.Error(err),
	)
	if err != nil {
		return err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return newAPIError(status, body)
	}
	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", req.Method, req.URL.Path)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(r.Path, "/")})
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var (
		body        io.Reader = http.NoBody
		contentType           = echo.MIMEApplicationJSON
	)
	switch {
	case r.Form != nil:
		buf, ct, err := r.Form.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case r.Body != nil:
		b := bytes.NewBuffer(nil)
		if err := json.NewEncoder(b).Encode(r.Body); err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		body = b
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderXRequestID, uuid.NewString())
	return req, nil
}

func (c *Client) authorize(req *http.Request, public bool) error {
	if c.cfg.AuthMode == config.AuthSession {
		if !isMutating(req.Method) {
			return nil
		}
		csrf := c.csrfToken()
		if csrf == "" {
			if public {
				return nil
			}
			return errs.ErrNoCSRFToken
		}
		req.Header.Set(HeaderCSRFToken, csrf)
		return nil
	}

	if public {
		return nil
	}
	token := c.sess.Token()
	if token == "" {
		return errs.ErrUnauthenticated
	}
	req.Header.Set(echo.HeaderAuthorization, tokenPrefix+token)
	return nil
}

func (c *Client) csrfToken() string {
	for _, cookie := range c.client.Jar.Cookies(c.base) {
		if cookie.Name == CookieCSRFToken {
			return cookie.Value
		}
	}
	return c.sess.Cookie(CookieCSRFToken)
}

// mirrorCookies copies the backend session cookies into the session so a
// remembered login survives restarts.
func (c *Client) mirrorCookies() {
	if c.cfg.AuthMode != config.AuthSession {
		return
	}
	c.sess.SetCookies(c.client.Jar.Cookies(c.base), CookieCSRFToken, CookieSessionID)
}

// ForgetCookies expires every backend cookie held in the jar.
func (c *Client) ForgetCookies() {
	cookies := c.client.Jar.Cookies(c.base)
	expired := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		expired = append(expired, &http.Cookie{Name: cookie.Name, Path: "/", MaxAge: -1})
	}
	c.client.Jar.SetCookies(c.base, expired)
}

// CoverURL turns a raw cover value into something displayable, according to
// the configured cover mode. Empty stays empty.
func (c *Client) CoverURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if c.cfg.CoverMode == config.CoverMedia {
		if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "data:") {
			return raw
		}
		u, err := c.media.Parse(strings.TrimPrefix(raw, "./"))
		if err != nil {
			return raw
		}
		return u.String()
	}
	if strings.HasPrefix(raw, "data:image") {
		return raw
	}
	return "data:image/jpeg;base64," + raw
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}
