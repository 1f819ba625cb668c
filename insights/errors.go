package insights

import "errors"

var (
	ErrMissingAPIKey     = errors.New("anthropic api key is required")
	ErrMalformedResponse = errors.New("insights response is not valid json")
)
