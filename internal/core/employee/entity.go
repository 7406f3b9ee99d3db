package employee

import "time"

// Rating は社員に付与できる評価値です。
type Rating string

const (
	RatingExcellent    Rating = "excellent"
	RatingGood         Rating = "good"
	RatingAverage      Rating = "average"
	RatingSatisfactory Rating = "satisfactory"
	RatingPoor         Rating = "poor"
)

// Ratings は受け付ける評価値の一覧です。
var Ratings = []Rating{RatingExcellent, RatingGood, RatingAverage, RatingSatisfactory, RatingPoor}

// ParseRating は文字列を Rating に変換します。
func ParseRating(raw string) (Rating, error) {
	r := Rating(raw)
	if !r.Valid() {
		return "", ErrInvalidRating
	}
	return r, nil
}

// Valid は評価値が定義済みの値かを判定します。
func (r Rating) Valid() bool {
	switch r {
	case RatingExcellent, RatingGood, RatingAverage, RatingSatisfactory, RatingPoor:
		return true
	default:
		return false
	}
}

// Employee は社員レコードです。EmployerID が現在の雇用主 (所有者) を表します。
type Employee struct {
	ID           uint64
	Name         string
	Email        string
	EmployerID   string
	Rating       *Rating
	Transferable bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// OwnedBy は caller が雇用主かどうかを返します。
func (e *Employee) OwnedBy(caller string) bool {
	return e != nil && e.EmployerID == caller
}

// Clone はポインタフィールドを含めて複製します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	if e.Rating != nil {
		r := *e.Rating
		c.Rating = &r
	}
	if e.UpdatedAt != nil {
		u := *e.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}
