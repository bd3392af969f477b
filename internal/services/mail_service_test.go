package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrocrm/internal/config"
	"astrocrm/internal/models/db_models"
	"astrocrm/internal/testutil"
)

func TestNewAccountNotifierDisabled(t *testing.T) {
	log, _ := testutil.NewLogger()
	n := NewAccountNotifier(config.MailConfig{Enabled: false}, log)
	assert.IsType(t, noopNotifier{}, n)
	assert.NoError(t, n.NotifyDecision(context.Background(), &db_models.Account{}))
}

func TestSMTPNotifierBuildsDecisionMail(t *testing.T) {
	n := newSMTPNotifier(config.MailConfig{
		From:       "noreply@astro.example",
		FromName:   "AstroConsult",
		AppName:    "AstroConsult",
		AppBaseURL: "https://astro.example/",
	})
	n.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	var sentTo string
	var sent []byte
	n.deliver = func(_ context.Context, to string, msg []byte) error {
		sentTo, sent = to, msg
		return nil
	}

	approved := &db_models.Account{Name: "Priya", Email: "priya@example.com", Status: db_models.StatusApproved}
	require.NoError(t, n.NotifyDecision(context.Background(), approved))
	assert.Equal(t, "priya@example.com", sentTo)
	body := string(sent)
	assert.Contains(t, body, "To: priya@example.com\r\n")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "https://astro.example/login")
	assert.Contains(t, body, "Your account has been approved")

	reason := "incomplete profile"
	rejected := &db_models.Account{Name: "Ravi", Email: "ravi@example.com", Status: db_models.StatusRejected, RejectionReason: &reason}
	data := n.decisionEmail(rejected)
	assert.Equal(t, "Your account has been rejected", data.Title)
	assert.Contains(t, data.Intro, "Reason: incomplete profile")
	assert.Empty(t, data.ButtonURL)

	data = n.decisionEmail(&db_models.Account{Name: "Ravi", Status: db_models.StatusRejected})
	assert.Contains(t, data.Intro, "Reason: "+db_models.DefaultRejectionReason)
}
