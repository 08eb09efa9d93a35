package progress

import "github.com/abhisek/learnloop/internal/catalog"

// Rarity represents the difficulty tier of a badge.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities in order from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// BadgeRarity derives a badge's rarity from how hard it is to earn.
func BadgeRarity(b catalog.Badge) Rarity {
	switch b.Kind {
	case catalog.BadgeLevel:
		return LevelRarity(b.MinLevel)
	default:
		return ScoreRarity(b.RequiredCount, b.PassingPercentage)
	}
}

// LevelRarity returns the rarity of reaching a given level.
func LevelRarity(level int) Rarity {
	switch {
	case level >= 20:
		return RarityLegendary
	case level >= 10:
		return RarityEpic
	case level >= 5:
		return RarityRare
	default:
		return RarityCommon
	}
}

// ScoreRarity returns the rarity of scoring percentage on count targets.
// Difficulty is count weighted by the required score.
func ScoreRarity(count, percentage int) Rarity {
	difficulty := float64(count) * float64(percentage) / 100
	switch {
	case difficulty >= 10:
		return RarityLegendary
	case difficulty >= 5:
		return RarityEpic
	case difficulty >= 2:
		return RarityRare
	default:
		return RarityCommon
	}
}
