package reply

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gastrohq/kellner/gemini"
	"github.com/gastrohq/kellner/restaurant"
)

const maxReplyTokens = 300

// Generator produces a free-form, in-persona reply for utterances no
// structured branch handles. It is the last line of defense before the
// caller hears a response and must never raise past the orchestrator.
type Generator struct {
	completer gemini.Completer
	log       zerolog.Logger
}

func NewGenerator(completer gemini.Completer, log zerolog.Logger) *Generator {
	return &Generator{
		completer: completer,
		log:       log.With().Str("component", "reply").Logger(),
	}
}

// Generate returns the completion for the raw utterance, or the fixed
// apology string on any failure.
func (g *Generator) Generate(ctx context.Context, utterance string) string {
	text, err := g.completer.Complete(ctx, restaurant.PersonaPrompt, utterance, maxReplyTokens)
	if err != nil {
		g.log.Error().Err(err).Msg("reply generation failed")
		return restaurant.StaffApology
	}
	return text
}
