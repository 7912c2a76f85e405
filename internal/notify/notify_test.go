package notify

import (
	"context"
	"io"
	"testing"

	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestFormatMessageEscapesHTML(t *testing.T) {
	got := formatMessage("Plan <Pleno>", "user a&b")
	assert.Equal(t, "🔔 <b>Plan &lt;Pleno&gt;</b>\nuser a&amp;b", got)
}

func TestNewWithoutTokenIsNoop(t *testing.T) {
	logger.SetOutput(io.Discard)
	n := New(config.TelegramConfig{})
	assert.IsType(t, Noop{}, n)
	assert.NoError(t, n.Notify(context.Background(), "s", "b"))
}
