package emails

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentflow/internal/types"
)

func TestKinds_CoverEveryEmailType(t *testing.T) {
	kinds, err := Kinds()
	require.NoError(t, err)
	for _, want := range []types.EmailType{
		types.EmailInvitation, types.EmailConfirmation, types.EmailReminder,
		types.EmailApplicationReceived, types.EmailRejection, types.EmailRequestInfo, types.EmailCustom,
	} {
		assert.Contains(t, kinds, want)
	}
}

func TestGet_UnknownKind(t *testing.T) {
	_, err := Get("newsletter")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	out := Format("Hi {{.Name}}, {{.Name}}! {{.Missing}}", map[string]string{"Name": "Ada"})
	assert.Equal(t, "Hi Ada, Ada! {{.Missing}}", out)
}

func interview() *types.Interview {
	return &types.Interview{
		ScheduledAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Location:        types.LocationVirtual,
		MeetingLink:     "https://meet.company.com/interview/abc123defg",
	}
}

func TestRender_AllKindsLeaveNoPlaceholders(t *testing.T) {
	r := NewRenderer("Acme")
	data := Data{
		CandidateName: "Ada Lovelace",
		JobTitle:      "Data Engineer",
		Interview:     interview(),
		Message:       "Thanks again.",
		Subject:       "Hello",
	}
	kinds, err := Kinds()
	require.NoError(t, err)
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			msg, err := r.Render(kind, data)
			require.NoError(t, err)
			assert.NotContains(t, msg.Subject, "{{.")
			assert.NotContains(t, msg.Body, "{{.")
			assert.True(t, strings.HasPrefix(msg.Body, "Dear Ada Lovelace,"))
			assert.True(t, strings.HasSuffix(msg.Body, "Best regards,\nHR Team\nAcme"))
		})
	}
}

func TestRender_Invitation(t *testing.T) {
	msg, err := NewRenderer("Acme").Render(types.EmailInvitation, Data{
		CandidateName: "Ada", JobTitle: "Data Engineer", Interview: interview(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Interview Invitation - Data Engineer Position at Acme", msg.Subject)
	assert.Contains(t, msg.Body, "March 02, 2026 at 10:00 AM UTC")
	assert.Contains(t, msg.Body, "Meeting link: https://meet.company.com/interview/abc123defg")
	assert.Contains(t, msg.Body, "60 minutes")
}

func TestRender_InterviewKindsNeedInterview(t *testing.T) {
	_, err := NewRenderer("Acme").Render(types.EmailConfirmation, Data{CandidateName: "Ada"})
	assert.Error(t, err)
}

func TestRender_Rejection(t *testing.T) {
	r := NewRenderer("Acme")

	plain, err := r.Render(types.EmailRejection, Data{CandidateName: "Ada", JobTitle: "Data Engineer"})
	require.NoError(t, err)
	assert.Contains(t, plain.Body, "current needs.\n\nWe will keep")

	personal, err := r.Render(types.EmailRejection, Data{CandidateName: "Ada", JobTitle: "Data Engineer", Message: "Your SQL work stood out."})
	require.NoError(t, err)
	assert.Contains(t, personal.Body, "current needs.\n\nYour SQL work stood out.\n\nWe will keep")
}

func TestRender_RequestInfo(t *testing.T) {
	r := NewRenderer("Acme")

	listed, err := r.Render(types.EmailRequestInfo, Data{CandidateName: "Ada", InfoNeeded: []string{"References", " ", "Portfolio"}})
	require.NoError(t, err)
	assert.Contains(t, listed.Body, "- References\n- Portfolio")
	assert.Contains(t, listed.Subject, "Position Application")

	free, err := r.Render(types.EmailRequestInfo, Data{CandidateName: "Ada", Message: "Your notice period"})
	require.NoError(t, err)
	assert.Contains(t, free.Body, "Your notice period")
}

func TestRender_Custom(t *testing.T) {
	r := NewRenderer("Acme")
	_, err := r.Render(types.EmailCustom, Data{CandidateName: "Ada"})
	assert.Error(t, err)

	msg, err := r.Render(types.EmailCustom, Data{CandidateName: "Ada", Message: "Welcome aboard."})
	require.NoError(t, err)
	assert.Equal(t, "Message from Acme", msg.Subject)
	assert.Equal(t, "Dear Ada,\n\nWelcome aboard.\n\nBest regards,\nHR Team\nAcme", msg.Body)
}
