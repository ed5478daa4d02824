// Package twiml renders dialog directives as the XML documents the
// telephony provider expects in response to a voice webhook.
package twiml

import (
	"encoding/xml"
	"fmt"

	"github.com/gastrohq/kellner/dialog"
)

// Voice parameters applied to every spoken prompt.
const (
	voice    = "woman"
	language = "de-DE"
)

type say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr"`
	Language string   `xml:"language,attr"`
	Text     string   `xml:",chardata"`
}

type record struct {
	XMLName            xml.Name `xml:"Record"`
	PlayBeep           bool     `xml:"playBeep,attr"`
	Timeout            int      `xml:"timeout,attr"`
	MaxLength          int      `xml:"maxLength,attr"`
	Transcribe         bool     `xml:"transcribe,attr"`
	TranscribeCallback string   `xml:"transcribeCallback,attr"`
}

type dial struct {
	XMLName xml.Name `xml:"Dial"`
	Number  string   `xml:",chardata"`
}

type hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// response marshals in field order: the prompt is always spoken before
// the call-control verb. Nil verbs are omitted.
type response struct {
	XMLName xml.Name `xml:"Response"`
	Say     *say
	Record  *record
	Dial    *dial
	Hangup  *hangup
}

// Render encodes one directive as a complete TwiML document.
func Render(d dialog.Directive) ([]byte, error) {
	resp := response{
		Say: &say{Voice: voice, Language: language, Text: d.Say},
	}

	switch d.Action {
	case dialog.ActionRecord:
		resp.Record = &record{
			PlayBeep:           false,
			Timeout:            d.Record.TimeoutSeconds,
			MaxLength:          d.Record.MaxLengthSeconds,
			Transcribe:         true,
			TranscribeCallback: d.Record.Callback,
		}
	case dialog.ActionDial:
		resp.Dial = &dial{Number: d.Dial}
	case dialog.ActionHangup:
		resp.Hangup = &hangup{}
	default:
		return nil, fmt.Errorf("unknown call action %d", d.Action)
	}

	body, err := xml.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
