package domain

// Style tags a single headshot look. One generation job is submitted per
// style purchased by the order's tier.
type Style string

const (
	StyleBusinessFormal Style = "business_formal"
	StyleBusinessCasual Style = "business_casual"
	StyleCreative       Style = "creative"
	StyleOutdoor        Style = "outdoor"
	StyleStudioGray     Style = "studio_gray"
	StyleLinkedIn       Style = "linkedin"
	StyleStartup        Style = "startup"
	StyleAcademic       Style = "academic"
	StyleEditorial      Style = "editorial"
	StyleBlackWhite     Style = "black_white"
)

// allStyles is ordered; tiers take a prefix of it.
var allStyles = []Style{
	StyleBusinessFormal,
	StyleBusinessCasual,
	StyleCreative,
	StyleOutdoor,
	StyleStudioGray,
	StyleLinkedIn,
	StyleStartup,
	StyleAcademic,
	StyleEditorial,
	StyleBlackWhite,
}

// Tier enumerates purchasable packages.
type Tier string

const (
	TierStarter      Tier = "starter"
	TierProfessional Tier = "professional"
	TierExecutive    Tier = "executive"
)

// Valid reports whether t names a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierStarter, TierProfessional, TierExecutive:
		return true
	}
	return false
}

// ParseTier converts a customer-supplied tier name, returning ErrInvalidTier
// for anything outside the catalog.
func ParseTier(s string) (Tier, error) {
	tier := Tier(s)
	if !tier.Valid() {
		return "", ErrInvalidTier
	}
	return tier, nil
}

// Styles returns the styles purchased by the tier: starter 5, professional
// 10, executive unlocks the full catalog.
func (t Tier) Styles() []Style {
	switch t {
	case TierStarter:
		return append([]Style(nil), allStyles[:5]...)
	case TierProfessional, TierExecutive:
		return append([]Style(nil), allStyles...)
	}
	return nil
}

// ImagesPerStyle returns how many headshots each style's job produces, so the
// tier totals come out to 40, 100 and 200 respectively.
func (t Tier) ImagesPerStyle() int {
	switch t {
	case TierStarter:
		return 8
	case TierProfessional:
		return 10
	case TierExecutive:
		return 20
	}
	return 0
}
