package services

import (
	"time"

	"gorm.io/gorm"
)

// tri is the tri-state of an optional boolean query filter.
type tri int8

const (
	triAny tri = iota
	triFalse
	triTrue
)

func triOf(b *bool) tri {
	switch {
	case b == nil:
		return triAny
	case *b:
		return triTrue
	default:
		return triFalse
	}
}

// BeneficiaryRule constrains membership of the viewing business in a
// benefit's beneficiaries set.
type BeneficiaryRule int8

const (
	BeneficiaryAny BeneficiaryRule = iota
	BeneficiaryNotIn
	BeneficiaryIn
)

// BenefitFilter is the predicate set a perk-listing query applies for one
// (acquired, privacy) combination. It is pure data so tests can compare it
// against the decision table directly; Scope turns it into query conditions.
type BenefitFilter struct {
	Beneficiary BeneficiaryRule

	// RequireAvailableFor restricts to perks listing the viewer in their
	// available_for set.
	RequireAvailableFor bool

	// IsPrivate, when non-nil, pins the privacy flag.
	IsPrivate *bool

	// PublicOrAvailable adds the "public OR listed for me" OR-clause.
	PublicOrAvailable bool
}

type filterKey struct {
	acquired tri
	privacy  tri
}

var (
	privateTrue  = true
	privateFalse = false
)

// benefitFilterTable is the full decision table: one entry per
// (acquired, privacy) pair, no fallthrough between cases. The
// (false, any) and (any, any) rows intentionally share a shape except for
// the beneficiaries constraint.
var benefitFilterTable = map[filterKey]BenefitFilter{
	{triFalse, triFalse}: {Beneficiary: BeneficiaryNotIn, IsPrivate: &privateFalse},
	{triFalse, triTrue}:  {Beneficiary: BeneficiaryNotIn, RequireAvailableFor: true, IsPrivate: &privateTrue},
	{triFalse, triAny}:   {Beneficiary: BeneficiaryNotIn, PublicOrAvailable: true},
	{triTrue, triFalse}:  {Beneficiary: BeneficiaryIn, IsPrivate: &privateFalse},
	{triTrue, triTrue}:   {Beneficiary: BeneficiaryIn, IsPrivate: &privateTrue},
	{triTrue, triAny}:    {Beneficiary: BeneficiaryIn},
	{triAny, triTrue}:    {RequireAvailableFor: true, IsPrivate: &privateTrue},
	{triAny, triFalse}:   {IsPrivate: &privateFalse},
	{triAny, triAny}:     {PublicOrAvailable: true},
}

// BuildBenefitFilter maps the two optional listing filters to the predicate
// set the query must apply from the viewpoint of a beneficiary business.
func BuildBenefitFilter(acquired, privacy *bool) BenefitFilter {
	return benefitFilterTable[filterKey{triOf(acquired), triOf(privacy)}]
}

// Scope applies the predicate set to a benefits query for the given viewer.
func (f BenefitFilter) Scope(beneficiaryID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		beneficiarySub := "SELECT benefit_id FROM benefit_beneficiaries WHERE business_id = ?"
		availableSub := "SELECT benefit_id FROM benefit_available_for WHERE business_id = ?"

		switch f.Beneficiary {
		case BeneficiaryIn:
			db = db.Where("benefits.id IN ("+beneficiarySub+")", beneficiaryID)
		case BeneficiaryNotIn:
			db = db.Where("benefits.id NOT IN ("+beneficiarySub+")", beneficiaryID)
		}

		if f.RequireAvailableFor {
			db = db.Where("benefits.id IN ("+availableSub+")", beneficiaryID)
		}

		if f.IsPrivate != nil {
			db = db.Where("benefits.is_private = ?", *f.IsPrivate)
		}

		if f.PublicOrAvailable {
			db = db.Where("(benefits.is_private = ? OR benefits.id IN ("+availableSub+"))", false, beneficiaryID)
		}

		return db
	}
}

// CurrentlyRunning is the temporal-validity predicate applied uniformly to
// perk listings regardless of the privacy/acquired combination.
func CurrentlyRunning(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("benefits.is_active = ?", true).
			Where("(benefits.starts_at IS NULL OR benefits.starts_at <= ?)", now).
			Where("(benefits.finishes_at IS NULL OR benefits.finishes_at >= ?)", now)
	}
}

// StartingFrom narrows listings to perks whose start bound is at or after
// the given instant, so upcoming perks can be browsed. It replaces the
// started-by-now half of CurrentlyRunning; activity and the finish bound
// still apply. Perks without a start bound never match.
func StartingFrom(startsAt, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("benefits.is_active = ?", true).
			Where("benefits.starts_at >= ?", startsAt).
			Where("(benefits.finishes_at IS NULL OR benefits.finishes_at >= ?)", now)
	}
}
