package dialog

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"github.com/gastrohq/kellner/nlu"
	"github.com/gastrohq/kellner/restaurant"
	"github.com/gastrohq/kellner/store"
)

// Callback paths the telephony provider posts transcripts to.
const (
	TranscribeCallback = "/transcribe"
	SMSConfirmCallback = "/transcribe-sms"
)

// orderRefLen is how much of the order id is read back to the caller.
const orderRefLen = 8

// IntentParser is the understanding seam; see nlu.Parser.
type IntentParser interface {
	ParseUtterance(ctx context.Context, text string) nlu.Result
}

// ReplyGenerator is the free-form reply seam; see reply.Generator.
type ReplyGenerator interface {
	Generate(ctx context.Context, utterance string) string
}

// RecordStore is the persistence seam; see store.Store.
type RecordStore interface {
	InsertReservation(ctx context.Context, r store.Reservation) (string, error)
	InsertOrder(ctx context.Context, o store.Order) (string, error)
}

// Orchestrator drives one dialog turn to a spoken prompt and a
// call-control decision. It holds no state between turns; every turn is
// parsed independently.
type Orchestrator struct {
	parser     IntentParser
	replies    ReplyGenerator
	records    RecordStore
	agentPhone string
	log        zerolog.Logger
}

func New(parser IntentParser, replies ReplyGenerator, records RecordStore, agentPhone string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		parser:     parser,
		replies:    replies,
		records:    records,
		agentPhone: agentPhone,
		log:        log.With().Str("component", "dialog").Logger(),
	}
}

// HandleTurn maps one turn to its directive. It never returns an error:
// a failure inside intent routing surfaces as the apology directive,
// with a transfer when an operator number is configured. The boundary
// wraps the whole routing step, so a failure partway through a branch
// still reaches the caller as a coherent spoken response.
func (o *Orchestrator) HandleTurn(ctx context.Context, turn Turn) Directive {
	if turn.Speech == "" {
		return Directive{
			Say:    restaurant.Greeting,
			Action: ActionRecord,
			Record: RecordParams{TimeoutSeconds: 4, MaxLengthSeconds: 20, Callback: TranscribeCallback},
		}
	}

	res := o.parser.ParseUtterance(ctx, turn.Speech)
	o.log.Info().
		Str("call_id", turn.CallID).
		Str("intent", string(res.Intent)).
		Float64("confidence", res.Confidence).
		Interface("slots", res.Slots).
		Msg("utterance parsed")

	d, err := o.route(ctx, turn, res)
	if err != nil {
		o.log.Error().Err(err).
			Str("call_id", turn.CallID).
			Str("intent", string(res.Intent)).
			Msg("turn failed")
		if o.agentPhone != "" {
			return Directive{Say: restaurant.TransferApology, Action: ActionDial, Dial: o.agentPhone}
		}
		return Directive{Say: restaurant.TransferApology, Action: ActionHangup}
	}
	return d
}

// route executes one intent branch. Slot extraction, the record write
// and prompt composition run strictly in that order; a completed write
// is not rolled back if a later step fails.
func (o *Orchestrator) route(ctx context.Context, turn Turn, res nlu.Result) (Directive, error) {
	switch res.Intent {
	case nlu.IntentReserveTable:
		return o.reserveTable(ctx, res.Slots)
	case nlu.IntentAskHoursLocation:
		// Intent-only branch: extracted slots are deliberately ignored.
		return Directive{Say: restaurant.HoursAndLocation, Action: ActionHangup}, nil
	case nlu.IntentOrderTakeaway:
		return o.orderTakeaway(ctx, res.Slots)
	default:
		// change_cancel and feedback are recognized but not yet wired to
		// mutate records; they degrade to the generic reply path along
		// with ask_menu and fallback.
		return Directive{Say: o.replies.Generate(ctx, turn.Speech), Action: ActionHangup}, nil
	}
}

func (o *Orchestrator) reserveTable(ctx context.Context, slots nlu.Slots) (Directive, error) {
	r := store.Reservation{
		Name:      slots.Text("name", "Gast"),
		Phone:     slots.Text("phone", ""),
		Date:      slots.Text("date", ""),
		Time:      slots.Text("time", ""),
		PartySize: slots.Int("party_size", 1),
		Notes:     slots.Text("notes", ""),
	}
	if _, err := o.records.InsertReservation(ctx, r); err != nil {
		return Directive{}, err
	}

	// Echo the critical fields back verbatim, with a generic phrase per
	// missing field.
	say := fmt.Sprintf(
		"Danke. Ich habe Ihre Reservierung für den %s um %s für %d Personen auf den Namen %s eingetragen. Möchten Sie eine Bestätigung per SMS?",
		slots.Text("date", "angegebenen Tag"),
		slots.Text("time", "angegebene Zeit"),
		r.PartySize,
		r.Name,
	)
	return Directive{
		Say:    say,
		Action: ActionRecord,
		Record: RecordParams{TimeoutSeconds: 3, MaxLengthSeconds: 3, Callback: SMSConfirmCallback},
	}, nil
}

func (o *Orchestrator) orderTakeaway(ctx context.Context, slots nlu.Slots) (Directive, error) {
	items, err := sonic.MarshalString(slots.List("items"))
	if err != nil {
		return Directive{}, fmt.Errorf("encode order items: %w", err)
	}

	ord := store.Order{
		Name:       slots.Text("name", "Gast"),
		Phone:      slots.Text("phone", ""),
		Items:      items,
		PickupTime: slots.Text("pickup_time", ""),
		Total:      slots.Float("total", 0),
	}
	id, err := o.records.InsertOrder(ctx, ord)
	if err != nil {
		return Directive{}, err
	}

	ref := id
	if len(ref) > orderRefLen {
		ref = ref[:orderRefLen]
	}
	say := fmt.Sprintf(
		"Danke. Ihre Bestellung wurde aufgenommen. Abholung in %s. Ihre Bestellnummer ist %s.",
		slots.Text("pickup_time", "kurzer Zeit"),
		ref,
	)
	return Directive{Say: say, Action: ActionHangup}, nil
}
