package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_FallsBackToLogSender(t *testing.T) {
	s := New("", "noreply@example.com", nil)
	_, ok := s.(*LogSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), Message{To: "a@example.com", Subject: "hi"}))

	_, ok = New("re_123", "noreply@example.com", nil).(*Resend)
	assert.True(t, ok)
}

func TestPasswordResetCode(t *testing.T) {
	msg := PasswordResetCode("a@example.com", "Ann", "123456", 15)
	assert.Equal(t, "a@example.com", msg.To)
	assert.True(t, strings.Contains(msg.HTML, "123456"))
	assert.True(t, strings.Contains(msg.Text, "15 minutes"))
}
