package scheduling

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/types"
)

// fallbackDelay is used when the search window has no free slot.
const fallbackDelay = 7 * 24 * time.Hour

const meetingIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Scheduler books interviews against a calendar of existing interviews.
type Scheduler struct {
	opts Options
}

// NewScheduler returns a scheduler using opts.
func NewScheduler(opts Options) *Scheduler {
	return &Scheduler{opts: opts}
}

// Options returns the scheduler's slot options.
func (s *Scheduler) Options() Options {
	return s.opts
}

// Window returns the range searched for free slots.
func (s *Scheduler) Window(now time.Time) (time.Time, time.Time) {
	start := now.AddDate(0, 0, s.opts.LeadDays)
	return start, start.AddDate(0, 0, s.opts.WindowDays)
}

// Slots lists the free slots in the scheduling window.
func (s *Scheduler) Slots(existing []types.Interview, now time.Time) []time.Time {
	from, to := s.Window(now)
	return GenerateSlots(from, to, s.opts, existing)
}

// Schedule builds a new interview for the candidate. A free preferred time wins;
// otherwise the earliest free slot in the window is used, and failing that a time
// one week from now.
func (s *Scheduler) Schedule(cand *types.Candidate, req *types.ScheduleInterviewRequest, existing []types.Interview, now time.Time) (*types.Interview, error) {
	if cand == nil {
		return nil, errors.New("candidate is required")
	}
	if req == nil {
		req = &types.ScheduleInterviewRequest{CandidateID: cand.ID}
	}

	at, ok := s.pick(req.PreferredTime, existing, now)
	if !ok {
		at = now.Add(fallbackDelay).Truncate(time.Minute)
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = types.LocationVirtual
	}
	interviewType := req.InterviewType
	if interviewType == "" {
		interviewType = types.InterviewTypeInitial
	}

	iv := &types.Interview{
		ID:              uuid.New(),
		CandidateID:     cand.ID,
		JobID:           cand.JobID,
		ScheduledAt:     at,
		DurationMinutes: int(s.opts.Duration / time.Minute),
		InterviewType:   interviewType,
		Location:        location,
		Interviewers:    append([]string{}, req.Interviewers...),
		Status:          types.InterviewStatusScheduled,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if strings.EqualFold(location, types.LocationVirtual) {
		link, err := s.meetingLink()
		if err != nil {
			return nil, err
		}
		iv.MeetingLink = link
	}
	return iv, nil
}

func (s *Scheduler) pick(preferred *time.Time, existing []types.Interview, now time.Time) (time.Time, bool) {
	if preferred != nil && preferred.After(now) && !overlapsAny(*preferred, s.opts.Duration, existing, nil) {
		return *preferred, true
	}
	if slots := s.Slots(existing, now); len(slots) > 0 {
		return slots[0], true
	}
	return time.Time{}, false
}

func (s *Scheduler) meetingLink() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = meetingIDAlphabet[int(b)%len(meetingIDAlphabet)]
	}
	return strings.TrimRight(s.opts.MeetingBaseURL, "/") + "/" + string(buf), nil
}

// ApplyResponse updates an interview with the candidate's reply.
// Rescheduling checks the new time against the other interviews in existing.
func ApplyResponse(iv *types.Interview, resp *types.InterviewResponseRequest, existing []types.Interview, now time.Time) error {
	if iv.Status == types.InterviewStatusCancelled || iv.Status == types.InterviewStatusCompleted {
		return ErrInterviewClosed
	}

	switch resp.Response {
	case types.ResponseAccept:
		iv.Status = types.InterviewStatusConfirmed
		iv.CandidateConfirmed = true
	case types.ResponseDecline:
		iv.Status = types.InterviewStatusCancelled
		iv.CandidateConfirmed = false
	case types.ResponseReschedule:
		if resp.NewTime == nil {
			return errors.New("reschedule needs a new time")
		}
		at := *resp.NewTime
		if !at.After(now) {
			return ErrPastTime
		}
		if overlapsAny(at, iv.EndsAt().Sub(iv.ScheduledAt), existing, iv) {
			return ErrSlotUnavailable
		}
		iv.ScheduledAt = at
		iv.Status = types.InterviewStatusScheduled
		iv.CandidateConfirmed = false
	default:
		return ErrUnknownResponse
	}

	if msg := strings.TrimSpace(resp.Message); msg != "" {
		if iv.Notes != "" {
			iv.Notes += "\n"
		}
		iv.Notes += "Candidate: " + msg
	}
	iv.UpdatedAt = now
	return nil
}
