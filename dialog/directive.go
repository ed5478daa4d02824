package dialog

// Turn is one webhook exchange: the call sid plus the transcribed
// speech, which is empty on first contact.
type Turn struct {
	CallID string
	Speech string
}

// Action tells the telephony collaborator what to do after speaking.
type Action int

const (
	// ActionRecord resumes listening with transcription enabled.
	ActionRecord Action = iota
	// ActionHangup ends the call.
	ActionHangup
	// ActionDial transfers the call to a human operator.
	ActionDial
)

// RecordParams configures the listen window after a prompt. No lead-in
// tone is ever played.
type RecordParams struct {
	TimeoutSeconds   int    // silence timeout
	MaxLengthSeconds int    // bound on utterance length
	Callback         string // path the transcript is posted to
}

// Directive is the complete instruction for one turn: the spoken prompt
// plus the call-control decision.
type Directive struct {
	Say    string
	Action Action
	Record RecordParams // valid when Action is ActionRecord
	Dial   string       // valid when Action is ActionDial
}
