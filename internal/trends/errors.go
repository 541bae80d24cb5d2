// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import "errors"

// Sentinel errors for use with errors.Is.
var (
	ErrEmptyKeyword      = errors.New("trends: keyword is empty")
	ErrWidgetNotFound    = errors.New("trends: widget not found in explore response")
	ErrRegionNotFound    = errors.New("trends: region not found in trending response")
	ErrMalformedResponse = errors.New("trends: malformed response")
)
