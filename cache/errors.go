package cache

import "errors"

var (
	ErrCacheMiss      = errors.New("no cached discovery")
	ErrMalformedEntry = errors.New("malformed cache entry")
	ErrExpiredEntry   = errors.New("cached discovery expired")
)
