package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"rental_portal_backend/internal/creditscore/domain"
	"rental_portal_backend/internal/records/repository"
)

// maintenanceFrequencyCap is the requests-per-month rate at which the
// frequency subscore bottoms out.
const maintenanceFrequencyCap = 2.0

// defaultInspectionRating stands in when no inspections are on file.
const defaultInspectionRating = 4.0

var tenantFaultKeywords = []string{"damage", "broken", "misuse"}

// PropertyCare scores up to 50 points from maintenance request frequency,
// whether requests look tenant-caused, and inspection ratings.
func PropertyCare(now time.Time, tenancies []repository.Tenancy, requests []repository.MaintenanceRequest, inspections []repository.Inspection) (int, []string) {
	if len(tenancies) == 0 {
		return 25, []string{"No tenant records"}
	}

	months := tenancyMonths(now, tenancies)
	if months < 1 {
		months = 1
	}

	frequency := float64(len(requests)) / months
	frequencyScore := math.Max(0, 1-frequency/maintenanceFrequencyCap)

	tenantCaused := 0
	for _, r := range requests {
		desc := strings.ToLower(r.Description)
		for _, kw := range tenantFaultKeywords {
			if strings.Contains(desc, kw) {
				tenantCaused++
				break
			}
		}
	}
	causeScore := 1.0
	if len(requests) > 0 {
		causeScore = 1 - float64(tenantCaused)/float64(len(requests))
	}

	avgRating := defaultInspectionRating
	if rated := ratedAverage(inspections); rated > 0 {
		avgRating = rated
	}
	inspectionScore := avgRating / 5.0

	score := (frequencyScore*0.30 + causeScore*0.25 + inspectionScore*0.25 + 0.20) * domain.MaxPropertyCare

	factors := []string{
		fmt.Sprintf("%d maintenance request(s)", len(requests)),
		fmt.Sprintf("Maintenance frequency: %.2f per month", frequency),
	}
	if len(inspections) > 0 {
		factors = append(factors, fmt.Sprintf("Average inspection score: %.1f/5", avgRating))
	}
	if tenantCaused > 0 {
		factors = append(factors, fmt.Sprintf("%d tenant-caused maintenance issue(s)", tenantCaused))
	}

	return roundCapped(score, domain.MaxPropertyCare), factors
}

func ratedAverage(inspections []repository.Inspection) float64 {
	var sum float64
	var n int
	for _, ins := range inspections {
		if ins.Rating > 0 {
			sum += ins.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
