package auth

import (
	"net/http"
)

// Transport authorizes outgoing requests with the provider's token, using the request context
// so a cancelled discovery also stops waiting for a refresh. A 401 invalidates the token and
// the request is retried once with a fresh one.
type Transport struct {
	Provider *TokenProvider
	Base     http.RoundTripper
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}

	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Provider.ValidToken(req.Context())
	if err != nil {
		return nil, err
	}

	resp, err := t.base().RoundTrip(authorize(req, token))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	t.Provider.Invalidate(token)

	token, err = t.Provider.ValidToken(req.Context())
	if err != nil {
		return resp, nil
	}

	retry := authorize(req, token)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}

		retry.Body = body
	}

	resp.Body.Close()

	return t.base().RoundTrip(retry)
}

func authorize(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)

	return r
}
