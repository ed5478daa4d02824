package main

import (
	"flag"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// Posts one simulated call turn to a running voice agent and prints the
// TwiML it answers with.
func main() {
	base := flag.String("url", "http://localhost:3000", "base URL of a running voice agent")
	sid := flag.String("sid", "CA-local-test", "call sid to send")
	speech := flag.String("speech", "", "transcribed speech (empty simulates first contact)")
	flag.Parse()

	form := url.Values{}
	form.Set("CallSid", *sid)
	form.Set("SpeechResult", *speech)

	resp, err := http.Post(*base+"/voice", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		log.Fatalf("Failed to post turn: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	log.Printf("Status: %s", resp.Status)
	log.Printf("TwiML:\n%s", body)
}
