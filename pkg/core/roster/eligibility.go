package roster

import "sort"

// EligibleByDuty resolves, for each duty, the ordered list of doctors
// permitted to perform it. A doctor with no preferred duties is treated as
// eligible for everything in the department. Lists are sorted by name then
// ID so that rotation-pointer arithmetic is reproducible across runs.
func EligibleByDuty(duties []Duty, doctors []Doctor) map[string][]Doctor {
	byDuty := make(map[string][]Doctor, len(duties))

	for _, duty := range duties {
		eligible := make([]Doctor, 0, len(doctors))
		for _, doc := range doctors {
			if isEligible(doc, duty.ID) {
				eligible = append(eligible, doc)
			}
		}

		sort.Slice(eligible, func(i, j int) bool {
			if eligible[i].Name != eligible[j].Name {
				return eligible[i].Name < eligible[j].Name
			}
			return eligible[i].ID < eligible[j].ID
		})

		byDuty[duty.ID] = eligible
	}

	return byDuty
}

func isEligible(doc Doctor, dutyID string) bool {
	if len(doc.PreferredDuties) == 0 {
		return true
	}
	for _, id := range doc.PreferredDuties {
		if id == dutyID {
			return true
		}
	}
	return false
}
