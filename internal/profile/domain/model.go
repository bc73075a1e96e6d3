package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Sex is the biological sex recorded on a user detail.
type Sex string

const (
	SexUnset  Sex = ""
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Valid reports whether s is one of the accepted values for a profile update.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// DefaultEatPerDay is the meal count a new user detail starts with.
const DefaultEatPerDay = 3

// MLIDPrefix prefixes every ml_id.
const MLIDPrefix = "UNT"

// UserDetail is the per-user profile document, keyed by the identity uid.
type UserDetail struct {
	UserID         string `json:"user_id" firestore:"user_id"`
	Weight         int    `json:"weight" firestore:"weight"`
	Height         int    `json:"height" firestore:"height"`
	Sex            Sex    `json:"sex" firestore:"sex"`
	CaloriesTarget int    `json:"calories_target" firestore:"calories_target"`
	Age            int    `json:"age" firestore:"age"`
	EatPerDay      int    `json:"eat_per_day" firestore:"eat_per_day"`
	HasBeenUpdated bool   `json:"has_been_updated" firestore:"has_been_updated"`
	MLID           string `json:"ml_id" firestore:"ml_id"`
}

// NewUserDetail returns the zeroed detail a freshly created user starts with.
func NewUserDetail(userID, mlID string) *UserDetail {
	return &UserDetail{
		UserID:    userID,
		Sex:       SexUnset,
		EatPerDay: DefaultEatPerDay,
		MLID:      mlID,
	}
}

// Fields flattens the detail into response fields.
func (d *UserDetail) Fields() map[string]any {
	return map[string]any{
		"user_id":          d.UserID,
		"weight":           d.Weight,
		"height":           d.Height,
		"sex":              d.Sex,
		"calories_target":  d.CaloriesTarget,
		"age":              d.Age,
		"eat_per_day":      d.EatPerDay,
		"has_been_updated": d.HasBeenUpdated,
		"ml_id":            d.MLID,
	}
}

// ProfileUpdate carries the fields overwritten by a profile save.
type ProfileUpdate struct {
	Weight         int
	Height         int
	Sex            Sex
	CaloriesTarget int
	Age            int
	EatPerDay      int
}

// Apply overwrites the profile fields of d, keeping user_id and ml_id.
func (u ProfileUpdate) Apply(d *UserDetail) {
	d.Weight = u.Weight
	d.Height = u.Height
	d.Sex = u.Sex
	d.CaloriesTarget = u.CaloriesTarget
	d.Age = u.Age
	d.EatPerDay = u.EatPerDay
	d.HasBeenUpdated = true
}

// FormatMLID renders n as an ml_id, zero-padded to at least three digits.
func FormatMLID(n int) string {
	return fmt.Sprintf("%s%03d", MLIDPrefix, n)
}

// ParseMLID returns the sequence number of an ml_id.
func ParseMLID(id string) (int, error) {
	if !strings.HasPrefix(id, MLIDPrefix) {
		return 0, fmt.Errorf("ml_id %q: missing %s prefix", id, MLIDPrefix)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, MLIDPrefix))
	if err != nil {
		return 0, fmt.Errorf("ml_id %q: %w", id, err)
	}
	return n, nil
}

// NextMLID returns the ml_id following id.
func NextMLID(id string) (string, error) {
	n, err := ParseMLID(id)
	if err != nil {
		return "", err
	}
	return FormatMLID(n + 1), nil
}
