package scoring

import (
	"testing"
	"time"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/records/repository"

	"github.com/google/uuid"
)

func request(description string, at time.Time) repository.MaintenanceRequest {
	return repository.MaintenanceRequest{
		ID:          uuid.New(),
		TenancyID:   uuid.New(),
		Description: description,
		CreatedAt:   at,
	}
}

func TestPropertyCareNoTenanciesIsNeutral(t *testing.T) {
	score, factors := PropertyCare(scoringNow, nil, nil, nil)
	if score != 25 {
		t.Fatalf("expected neutral 25 without tenancies, got %d", score)
	}
	if len(factors) != 1 || factors[0] != "No tenant records" {
		t.Fatalf("unexpected factors: %v", factors)
	}
}

func TestPropertyCareFrequentRequestsLowerScore(t *testing.T) {
	tenancies := []repository.Tenancy{currentTenancy(scoringNow.AddDate(-1, 0, 0))}

	few := []repository.MaintenanceRequest{request("leaky faucet", scoringNow)}
	var many []repository.MaintenanceRequest
	for i := 0; i < 20; i++ {
		many = append(many, request("leaky faucet", scoringNow))
	}

	fewScore, _ := PropertyCare(scoringNow, tenancies, few, nil)
	manyScore, _ := PropertyCare(scoringNow, tenancies, many, nil)

	if manyScore >= fewScore {
		t.Fatalf("expected frequent requests to lower score: few=%d many=%d", fewScore, manyScore)
	}
}

func TestPropertyCareTenantCausedDamageLowersScore(t *testing.T) {
	tenancies := []repository.Tenancy{currentTenancy(scoringNow.AddDate(-1, 0, 0))}

	wear := []repository.MaintenanceRequest{request("boiler service due", scoringNow)}
	fault := []repository.MaintenanceRequest{request("Broken window after party", scoringNow)}

	wearScore, _ := PropertyCare(scoringNow, tenancies, wear, nil)
	faultScore, faultFactors := PropertyCare(scoringNow, tenancies, fault, nil)

	if faultScore >= wearScore {
		t.Fatalf("expected tenant-caused issue to lower score: wear=%d fault=%d", wearScore, faultScore)
	}

	found := false
	for _, f := range faultFactors {
		if f == "1 tenant-caused maintenance issue(s)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected tenant-caused factor, got %v", faultFactors)
	}
}

func TestPropertyCareInspectionRatingsMoveScore(t *testing.T) {
	tenancies := []repository.Tenancy{currentTenancy(scoringNow.AddDate(-1, 0, 0))}

	good := []repository.Inspection{{ID: uuid.New(), Rating: 5, CreatedAt: scoringNow}}
	bad := []repository.Inspection{{ID: uuid.New(), Rating: 1, CreatedAt: scoringNow}}

	goodScore, _ := PropertyCare(scoringNow, tenancies, nil, good)
	badScore, _ := PropertyCare(scoringNow, tenancies, nil, bad)

	if badScore >= goodScore {
		t.Fatalf("expected poor inspections to lower score: good=%d bad=%d", goodScore, badScore)
	}
}

func TestPropertyCareUnratedInspectionsFallBackToDefault(t *testing.T) {
	tenancies := []repository.Tenancy{currentTenancy(scoringNow.AddDate(-1, 0, 0))}
	unrated := []repository.Inspection{{ID: uuid.New(), Rating: 0, CreatedAt: scoringNow}}

	withUnrated, _ := PropertyCare(scoringNow, tenancies, nil, unrated)
	withNone, _ := PropertyCare(scoringNow, tenancies, nil, nil)

	if withUnrated != withNone {
		t.Fatalf("expected unrated inspections to behave like none: unrated=%d none=%d", withUnrated, withNone)
	}
}

func TestPropertyCareNeverExceedsComponentMax(t *testing.T) {
	tenancies := []repository.Tenancy{currentTenancy(scoringNow.AddDate(-2, 0, 0))}
	perfect := []repository.Inspection{{ID: uuid.New(), Rating: 5, CreatedAt: scoringNow}}

	score, _ := PropertyCare(scoringNow, tenancies, nil, perfect)
	if score > domain.MaxPropertyCare {
		t.Fatalf("score %d exceeds component max %d", score, domain.MaxPropertyCare)
	}
}
