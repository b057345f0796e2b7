// Package birthdays finds patients whose birthday falls on a given day.
package birthdays

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/clinicdesk/internal/patients"
)

// LeapPolicy decides when patients born on 29 February celebrate in a
// non-leap year.
type LeapPolicy string

const (
	// LeapStrict compares month and day only; Feb 29 never matches in non-leap years.
	LeapStrict LeapPolicy = "strict"
	// LeapFeb28 celebrates Feb 29 birthdays on Feb 28 in non-leap years.
	LeapFeb28 LeapPolicy = "feb28"
	// LeapMar1 celebrates Feb 29 birthdays on Mar 1 in non-leap years.
	LeapMar1 LeapPolicy = "mar1"
)

// ParseLeapPolicy accepts strict, feb28 or mar1. Empty means strict.
func ParseLeapPolicy(s string) (LeapPolicy, error) {
	switch p := LeapPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", LeapStrict:
		return LeapStrict, nil
	case LeapFeb28, LeapMar1:
		return p, nil
	default:
		return "", fmt.Errorf("birthdays: unknown leap policy %q", s)
	}
}

// Birthday is a patient celebrating on the reference day.
type Birthday struct {
	PatientID uuid.UUID `json:"patient_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Phone     string    `json:"phone"`
}

// Match returns the patients whose birthday falls on today, with the age they
// reach. Patients without a birth date are skipped. Only the calendar fields of
// today are used.
func Match(today time.Time, candidates []patients.Patient, policy LeapPolicy) []Birthday {
	out := []Birthday{}
	for _, p := range candidates {
		if p.BirthDate == nil {
			continue
		}
		birth := *p.BirthDate
		age, ok := anniversaryAge(birth, today, policy)
		if !ok {
			continue
		}
		out = append(out, Birthday{
			PatientID: p.ID,
			Name:      p.FullName,
			Age:       age,
			Phone:     p.Phone,
		})
	}
	return out
}

// AgeOn returns the age on today of someone born on birth: the year difference,
// minus one if this year's anniversary has not been reached yet.
func AgeOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

func anniversaryAge(birth, today time.Time, policy LeapPolicy) (int, bool) {
	if birth.Month() == today.Month() && birth.Day() == today.Day() {
		return AgeOn(birth, today), true
	}
	if birth.Month() != time.February || birth.Day() != 29 || isLeap(today.Year()) {
		return 0, false
	}
	switch policy {
	case LeapFeb28:
		if today.Month() == time.February && today.Day() == 28 {
			return today.Year() - birth.Year(), true
		}
	case LeapMar1:
		if today.Month() == time.March && today.Day() == 1 {
			return today.Year() - birth.Year(), true
		}
	}
	return 0, false
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
