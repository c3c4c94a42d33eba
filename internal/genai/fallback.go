package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domerrors "github.com/garyellow/date-linebot-go/internal/errors"
)

// FallbackSuggester tries each suggester in order and returns the first success.
type FallbackSuggester struct {
	chain []Suggester
}

// NewFallbackSuggester skips nil entries. With no entries left it returns nil.
func NewFallbackSuggester(suggesters ...Suggester) *FallbackSuggester {
	chain := make([]Suggester, 0, len(suggesters))
	for _, s := range suggesters {
		if s != nil {
			chain = append(chain, s)
		}
	}
	if len(chain) == 0 {
		return nil
	}
	return &FallbackSuggester{chain: chain}
}

func (f *FallbackSuggester) Suggest(ctx context.Context, message string) ([]string, error) {
	var errs []error
	for i, s := range f.chain {
		lines, err := s.Suggest(ctx, message)
		if err == nil {
			if i > 0 {
				slog.InfoContext(ctx, "reply suggestion served by fallback provider",
					"provider", s.Provider(),
					"skipped", i)
			}
			return lines, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
		if i+1 < len(f.chain) {
			slog.WarnContext(ctx, "reply suggestion provider failed, trying next",
				"provider", s.Provider(),
				"next", f.chain[i+1].Provider(),
				"class", ClassifyError(err),
				"error", err)
		}
	}
	return nil, fmt.Errorf("%w: %w", domerrors.ErrProviderUnavailable, errors.Join(errs...))
}

// Provider reports the first provider in the chain.
func (f *FallbackSuggester) Provider() Provider {
	return f.chain[0].Provider()
}

func (f *FallbackSuggester) Close() error {
	var errs []error
	for _, s := range f.chain {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
