package employee

import (
	"errors"
	"testing"
	"time"
)

func TestParseRating(t *testing.T) {
	t.Parallel()

	for _, r := range Ratings {
		got, err := ParseRating(string(r))
		if err != nil {
			t.Fatalf("ParseRating(%q) returned error: %v", r, err)
		}
		if got != r {
			t.Fatalf("expected %s, got %s", r, got)
		}
	}

	if _, err := ParseRating("GOOD"); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ratings to be case sensitive, got %v", err)
	}
}

func TestEmployeeClone_IsDeep(t *testing.T) {
	t.Parallel()

	rating := RatingAverage
	updated := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	orig := &Employee{ID: 3, EmployerID: "p1", Rating: &rating, UpdatedAt: &updated}

	clone := orig.Clone()
	*clone.Rating = RatingPoor
	*clone.UpdatedAt = updated.Add(time.Hour)

	if *orig.Rating != RatingAverage || !orig.UpdatedAt.Equal(updated) {
		t.Fatalf("expected clone mutations not to leak into original")
	}
	if !orig.OwnedBy("p1") || orig.OwnedBy("p2") {
		t.Fatalf("unexpected OwnedBy result")
	}
}
