package nlu

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gastrohq/kellner/gemini"
	"github.com/gastrohq/kellner/restaurant"
)

// maxExtractionTokens bounds the completion: the expected output is one
// small JSON object.
const maxExtractionTokens = 400

// Parser turns one transcribed utterance into a normalized intent
// result.
type Parser struct {
	completer gemini.Completer
	log       zerolog.Logger
}

func NewParser(completer gemini.Completer, log zerolog.Logger) *Parser {
	return &Parser{
		completer: completer,
		log:       log.With().Str("component", "nlu").Logger(),
	}
}

// ParseUtterance never fails outward: any service or format problem
// degrades to the fallback result, trading one lost turn for call-flow
// robustness. Failures are logged for operators only.
func (p *Parser) ParseUtterance(ctx context.Context, text string) Result {
	raw, err := p.completer.Complete(ctx, restaurant.ExtractionPrompt, text, maxExtractionTokens)
	if err != nil {
		p.log.Error().Err(err).Msg("understanding call failed")
		return Fallback()
	}

	r, err := decode(raw)
	if err != nil {
		p.log.Error().Err(err).Str("raw", raw).Msg("understanding output unparseable")
		return Fallback()
	}
	return normalize(r)
}
