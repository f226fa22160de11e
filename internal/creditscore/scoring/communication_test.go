package scoring

import (
	"testing"
	"time"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/records/repository"

	"github.com/google/uuid"
)

func message(thread, sender uuid.UUID, at time.Time) repository.Message {
	return repository.Message{
		ID:        uuid.New(),
		ThreadID:  thread,
		SenderID:  sender,
		CreatedAt: at,
	}
}

func TestCommunicationNoMessagesIsNeutral(t *testing.T) {
	score, factors := Communication(scoringNow, uuid.New(), nil)
	if score != 25 {
		t.Fatalf("expected neutral 25 without messages, got %d", score)
	}
	if len(factors) != 1 || factors[0] != "No communication data" {
		t.Fatalf("unexpected factors: %v", factors)
	}
}

func TestCommunicationIgnoresMessagesOutsideWindow(t *testing.T) {
	user := uuid.New()
	old := message(uuid.New(), user, scoringNow.AddDate(-1, 0, 0))

	score, _ := Communication(scoringNow, user, []repository.Message{old})
	if score != 25 {
		t.Fatalf("expected stale messages to be ignored, got %d", score)
	}
}

func TestCommunicationFastRepliesScoreHigherThanSlow(t *testing.T) {
	user := uuid.New()
	landlord := uuid.New()
	thread := uuid.New()
	asked := scoringNow.AddDate(0, -1, 0)

	fast := []repository.Message{
		message(thread, landlord, asked),
		message(thread, user, asked.Add(2*time.Hour)),
	}
	slow := []repository.Message{
		message(thread, landlord, asked),
		message(thread, user, asked.Add(100*time.Hour)),
	}

	fastScore, _ := Communication(scoringNow, user, fast)
	slowScore, _ := Communication(scoringNow, user, slow)

	if slowScore >= fastScore {
		t.Fatalf("expected fast replies to score higher: fast=%d slow=%d", fastScore, slowScore)
	}
}

func TestCommunicationResponseGapBeyondWeekIsDiscarded(t *testing.T) {
	user := uuid.New()
	landlord := uuid.New()
	thread := uuid.New()
	asked := scoringNow.AddDate(0, -1, 0)

	// The only reply comes after the cutoff, so the default response time
	// applies instead.
	msgs := []repository.Message{
		message(thread, landlord, asked),
		message(thread, user, asked.Add(200*time.Hour)),
	}

	score, factors := Communication(scoringNow, user, msgs)

	found := false
	for _, f := range factors {
		if f == "Average response time: 48 hours" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected default response time factor, got %v (score %d)", factors, score)
	}
}

func TestCommunicationNeverExceedsComponentMax(t *testing.T) {
	user := uuid.New()
	landlord := uuid.New()
	thread := uuid.New()
	asked := scoringNow.AddDate(0, -1, 0)

	msgs := []repository.Message{
		message(thread, landlord, asked),
		message(thread, user, asked.Add(time.Hour)),
		message(thread, user, asked.Add(2*time.Hour)),
	}

	score, _ := Communication(scoringNow, user, msgs)
	if score > domain.MaxCommunication {
		t.Fatalf("score %d exceeds component max %d", score, domain.MaxCommunication)
	}
}
