// Package client is the shared, authenticated transport of the application.
//
// # Overview
//
// HTTPClient sends JSON requests to one base URL. Cross-cutting behaviour is
// attached as interceptors instead of being repeated at call sites:
//
//   - request stage (RequestInterceptor): runs before every request;
//     BearerToken adds "Authorization: Bearer <token>" when a session exists.
//   - success stage (SuccessHandler): runs on 2xx responses; Passthrough is
//     the identity.
//   - error stage (ErrorHandler): runs on transport failures and non-2xx
//     responses; LogoutOnUnauthorized ends the session on a 401 from any
//     endpoint that is not a credential-issuing one. Error handlers never
//     swallow the error.
//
// AuthAPI wraps the auth endpoints on top of an HTTPClient.
//
// For gRPC backends, UnaryAuthInterceptor applies the same bearer/401 rules
// to unary calls and NewGRPCConn dials a connection with it installed.
//
// # Errors
//
// Every failed call returns *common.NetworkError, which matches
// common.ErrNetwork, common.ErrorUnauthorized (401) and
// common.ErrUnavailable (no response or 503) through errors.Is.
package client
