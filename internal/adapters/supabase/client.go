// Package supabase talks to a hosted Supabase project: GoTrue for identity
// and the storage API for avatars.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/supabase-community/gotrue-go"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

const defaultTimeout = 15 * time.Second

type Options struct {
	URL        string
	AnonKey    string
	ServiceKey string
	HTTPClient *http.Client
}

// Client holds the project settings shared by the auth and storage adapters.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
	gotrue     gotrue.Client
}

func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" || opts.AnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required: %w", domain.ErrNotConfigured)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	service := opts.ServiceKey
	if service == "" {
		service = opts.AnonKey
	}
	base := strings.TrimRight(opts.URL, "/")
	return &Client{
		baseURL:    base,
		anonKey:    opts.AnonKey,
		serviceKey: service,
		http:       hc,
		gotrue:     gotrue.New("", opts.AnonKey).WithCustomGoTrueURL(base + "/auth/v1"),
	}, nil
}

// auth returns a GoTrue client whose requests carry ctx, authorized with
// token when it is not empty.
func (c *Client) auth(ctx context.Context, token string) gotrue.Client {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	gc := c.gotrue.WithClient(http.Client{
		Transport: ctxTransport{ctx: ctx, base: base},
		Timeout:   c.http.Timeout,
	})
	if token != "" {
		gc = gc.WithToken(token)
	}
	return gc
}

// ctxTransport attaches a context to requests built without one.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// apiError is a non-2xx GoTrue answer. gotrue-go reports those as
// "response status code <n>: <body>".
type apiError struct {
	Status           int    `json:"-"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("supabase: status %d: %s", e.Status, e.text())
}

func (e *apiError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return http.StatusText(e.Status)
}

const statusPrefix = "response status code "

// asAPIError recovers the status and body of a gotrue-go error.
func asAPIError(err error) (*apiError, bool) {
	if err == nil {
		return nil, false
	}
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	rest, ok := strings.CutPrefix(err.Error(), statusPrefix)
	if !ok {
		return nil, false
	}
	code, body, _ := strings.Cut(rest, ": ")
	status, convErr := strconv.Atoi(code)
	if convErr != nil {
		return nil, false
	}
	apiErr = &apiError{Status: status}
	_ = json.Unmarshal([]byte(body), apiErr)
	return apiErr, true
}

// userFacing turns an API error into a CollaboratorError carrying the
// provider's own message.
func userFacing(err error) error {
	if apiErr, ok := asAPIError(err); ok {
		return domain.NewCollaboratorError(apiErr.text(), apiErr)
	}
	return err
}

func isStatus(err error, codes ...int) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	for _, c := range codes {
		if apiErr.Status == c {
			return true
		}
	}
	return false
}
