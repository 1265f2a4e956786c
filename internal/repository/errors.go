package repository

import "errors"

var (
	// ErrNavigationTimeout means the page never reached a usable state.
	// It is fatal to the scrape session.
	ErrNavigationTimeout = errors.New("page navigation timed out")

	// ErrNetworkIdleTimeout means the post-load settle wait expired. The
	// pipeline proceeds with whatever the page has rendered.
	ErrNetworkIdleTimeout = errors.New("network idle wait timed out")

	// ErrNotFound is returned by stores when no matching record exists.
	ErrNotFound = errors.New("record not found")
)
