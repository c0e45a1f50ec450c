package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mobilecore/internal/common"
	"github.com/dmitrijs2005/mobilecore/internal/logging"
)

// DefaultAuthExcludedPaths are the credential-issuing endpoints whose 401
// means "wrong credentials" rather than "session expired".
var DefaultAuthExcludedPaths = []string{"/auth/login", "/auth/register"}

// TokenSource yields the current bearer token, "" when there is none.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Logouter interface {
	Logout(ctx context.Context)
}

// BearerToken sets the Authorization header from src. With no token the
// header is removed, never sent empty.
func BearerToken(src TokenSource) RequestInterceptor {
	return func(_ context.Context, req *http.Request) error {
		if token := src.Token(); token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		} else {
			req.Header.Del(common.AuthorizationHeaderName)
		}
		return nil
	}
}

// Passthrough returns the response unchanged.
func Passthrough(_ context.Context, _ *http.Request, resp *Response) (*Response, error) {
	return resp, nil
}

// LogoutOnUnauthorized logs the session out when a request fails with 401
// and its path contains none of excludedPaths. The error is always returned
// unchanged.
func LogoutOnUnauthorized(l Logouter, excludedPaths []string, log logging.Logger) ErrorHandler {
	log = logging.OrNop(log)
	return func(ctx context.Context, req *http.Request, err error) error {
		var ne *common.NetworkError
		if !errors.As(err, &ne) || ne.StatusCode != http.StatusUnauthorized {
			return err
		}

		path := req.URL.Path
		if isExcluded(path, excludedPaths) {
			return err
		}

		log.Warn(ctx, "unauthorized response, logging out", "method", req.Method, "path", path)
		l.Logout(ctx)
		return err
	}
}

func isExcluded(path string, excluded []string) bool {
	for _, p := range excluded {
		if p != "" && strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// LogErrors logs every failed request at debug level.
func LogErrors(log logging.Logger) ErrorHandler {
	log = logging.OrNop(log)
	return func(ctx context.Context, req *http.Request, err error) error {
		log.Debug(ctx, "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return err
	}
}
