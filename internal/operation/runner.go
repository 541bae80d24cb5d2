// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package operation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/search-trends/internal/httputil"
	"github.com/pdiddy/search-trends/internal/output"
	"github.com/pdiddy/search-trends/pkg/types"
)

// Runner executes one request and writes its outcome.
type Runner struct {
	Provider Provider
	Stdout   io.Writer
	Stderr   io.Writer
	Format   types.OutputFormat
	Log      zerolog.Logger
}

// Run executes req.
//
// A usage error (unknown operation, missing keyword) is returned without
// writing anything; the caller reports it. A provider failure is reported
// on Stderr as ["Error: <message>"], the operation's empty value is written
// to Stdout, and Run returns nil. A failure after ctx is cancelled is
// returned instead, with nothing written.
// Run otherwise fails only when Stdout cannot be written.
func (r *Runner) Run(ctx context.Context, req Request) error {
	h, err := Validate(req)
	if err != nil {
		return err
	}

	log := r.Log.With().Str("operation", string(h.Op)).Logger()
	start := time.Now()

	result, err := h.run(ctx, r.Provider, req)
	if err != nil && ctx.Err() != nil {
		log.Debug().Err(err).Msg("interrupted")
		return fmt.Errorf("%s interrupted: %w", h.Op, ctx.Err())
	}
	if err != nil {
		log.Debug().
			Err(err).
			Bool("rate_limited", httputil.IsRateLimited(err)).
			Msg("provider call failed")
		if derr := output.WriteDiagnostic(r.Stderr, err); derr != nil {
			log.Error().Err(derr).Msg("writing diagnostic")
		}
		result = h.Empty()
	} else {
		log.Debug().Dur("elapsed", time.Since(start)).Msg("operation completed")
	}

	if err := output.Write(r.Stdout, r.Format, result); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
