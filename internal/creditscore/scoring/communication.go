package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/records/repository"
)

const (
	communicationWindowMonths = 6
	maxResponseHours          = 168.0
	defaultResponseHours      = 48.0
	professionalToneScore     = 0.8
)

// Communication scores up to 50 points from messaging activity over the last
// six months: how quickly the tenant replies and what share of thread traffic
// they contribute. Tone is held at a fixed professional baseline since message
// bodies are not analyzed.
func Communication(now time.Time, userID uuid.UUID, messages []repository.Message) (int, []string) {
	since := now.AddDate(0, -communicationWindowMonths, 0)

	var recent []repository.Message
	for _, m := range messages {
		if !m.CreatedAt.Before(since) {
			recent = append(recent, m)
		}
	}

	if len(recent) == 0 {
		return 25, []string{"No communication data"}
	}

	threads := make(map[uuid.UUID][]repository.Message)
	userMessages := 0
	for _, m := range recent {
		threads[m.ThreadID] = append(threads[m.ThreadID], m)
		if m.SenderID == userID {
			userMessages++
		}
	}

	var responseHours []float64
	for _, msgs := range threads {
		sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
		for i := 1; i < len(msgs); i++ {
			prev, curr := msgs[i-1], msgs[i]
			if prev.SenderID == userID || curr.SenderID != userID {
				continue
			}
			hours := curr.CreatedAt.Sub(prev.CreatedAt).Hours()
			if hours < maxResponseHours {
				responseHours = append(responseHours, hours)
			}
		}
	}

	avgResponse := defaultResponseHours
	if len(responseHours) > 0 {
		var sum float64
		for _, h := range responseHours {
			sum += h
		}
		avgResponse = sum / float64(len(responseHours))
	}

	responseTimeScore := 0.6
	switch {
	case avgResponse < 24:
		responseTimeScore = 1.0
	case avgResponse < 48:
		responseTimeScore = 0.8
	}

	responseRate := float64(userMessages) / float64(len(recent))

	score := (responseTimeScore*0.30 +
		responseRate*0.25 +
		professionalToneScore*0.20 +
		0.25) * domain.MaxCommunication

	factors := []string{
		fmt.Sprintf("%d messages in last 6 months", len(recent)),
		fmt.Sprintf("Average response time: %d hours", int(math.Round(avgResponse))),
		fmt.Sprintf("Response rate: %d%%", int(math.Round(responseRate*100))),
	}

	return roundCapped(score, domain.MaxCommunication), factors
}
