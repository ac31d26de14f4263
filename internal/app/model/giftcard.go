package model

import "strings"

// GiftCardRecord is a read-only entry of the remote gift card catalog.
type GiftCardRecord struct {
	Code    string  `json:"code"`
	Balance float64 `json:"balance"`
	Active  *bool   `json:"active,omitempty"`
}

// IsActive treats a missing flag as active.
func (r GiftCardRecord) IsActive() bool {
	return r.Active == nil || *r.Active
}

// Matches reports whether the record answers to code, ignoring case and
// surrounding whitespace.
func (r GiftCardRecord) Matches(code string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Code), strings.TrimSpace(code))
}

// AppliedGiftCard is the locally held belief about a redeemed card. It is
// not verified against the catalog after application.
type AppliedGiftCard struct {
	Code      string   `json:"code"`
	Remaining *float64 `json:"remaining,omitempty"`
	Balance   float64  `json:"balance"`
}

// Available is the amount the card can still cover: the recorded remaining
// balance when one exists, the full balance otherwise.
func (a *AppliedGiftCard) Available() float64 {
	if a == nil {
		return 0
	}
	if a.Remaining != nil {
		return *a.Remaining
	}
	return a.Balance
}

// HasRemaining reports whether local usage has been recorded.
func (a *AppliedGiftCard) HasRemaining() bool {
	return a != nil && a.Remaining != nil
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
