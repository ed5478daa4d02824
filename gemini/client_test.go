package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "gemini-2.0-flash", time.Second)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestNewClientRequiresModel(t *testing.T) {
	// The model name always comes from configuration; the client has no
	// default of its own.
	_, err := NewClient(context.Background(), "test-key", "", time.Second)
	assert.ErrorContains(t, err, "model")
}
