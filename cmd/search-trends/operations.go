// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/search-trends/internal/operation"
	"github.com/pdiddy/search-trends/pkg/types"
)

var searchProperties = map[string]bool{
	"":        true,
	"images":  true,
	"news":    true,
	"youtube": true,
	"froogle": true,
}

func operationNames() []string {
	handlers := operation.Operations()
	names := make([]string, len(handlers))
	for i, s := range handlers {
		names[i] = string(s.Op)
	}
	return names
}

func usesExplore(op operation.Operation) bool {
	return op == operation.RelatedQueries || op == operation.RelatedTopics
}

// newOperationCmd builds the subcommand for one operation.
func newOperationCmd(a *app, h operation.Handler) *cobra.Command {
	use := string(h.Op)
	if h.NeedsKeyword {
		use += " <keyword>"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: h.Short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := operation.Request{Op: h.Op, Region: a.cfg.Trends.Region}
			if len(args) == 1 {
				req.Keyword = args[0]
			}
			if usesExplore(h.Op) {
				p, err := explorePayload(cmd)
				if err != nil {
					return err
				}
				req.Payload = p
			}

			// Usage errors never reach the provider.
			if _, err := operation.Validate(req); err != nil {
				return err
			}

			p, err := newProvider(a.cfg.Trends, a.log)
			if err != nil {
				return fmt.Errorf("configuring trends client: %w", err)
			}

			r := &operation.Runner{
				Provider: p,
				Stdout:   cmd.OutOrStdout(),
				Stderr:   cmd.ErrOrStderr(),
				Format:   a.cfg.Output,
				Log:      a.log,
			}
			if err := r.Run(cmd.Context(), req); err != nil {
				if operation.IsUsage(err) {
					return err
				}
				return &exitError{code: exitFailure, err: err}
			}
			return nil
		},
	}

	if usesExplore(h.Op) {
		def := types.DefaultExplorePayload()
		cmd.Flags().String("timeframe", def.Timeframe, `time window, e.g. "today 5-y", "today 12-m", "now 7-d"`)
		cmd.Flags().String("geo", def.Geo, `region code ("" for worldwide, "KR", "US-CA")`)
		cmd.Flags().Int("category", def.Category, "category id (0 for all categories)")
		cmd.Flags().String("property", def.Property, "search property: images, news, youtube, froogle (empty for web)")
	}
	return cmd
}

func explorePayload(cmd *cobra.Command) (types.ExplorePayload, error) {
	var p types.ExplorePayload
	var err error
	if p.Timeframe, err = cmd.Flags().GetString("timeframe"); err != nil {
		return p, err
	}
	if p.Geo, err = cmd.Flags().GetString("geo"); err != nil {
		return p, err
	}
	if p.Category, err = cmd.Flags().GetInt("category"); err != nil {
		return p, err
	}
	if p.Property, err = cmd.Flags().GetString("property"); err != nil {
		return p, err
	}
	if !searchProperties[p.Property] {
		return p, fmt.Errorf("invalid property %q: use images, news, youtube, froogle, or leave empty", p.Property)
	}
	return p, nil
}
