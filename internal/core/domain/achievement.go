package domain

// AchievementKind tags an unlockable achievement.
type AchievementKind string

const (
	AchievementFirstContribution AchievementKind = "first_contribution"
	AchievementFireStarter       AchievementKind = "fire_starter"
	AchievementFlameFanatic      AchievementKind = "flame_fanatic"
	AchievementInfernoKing       AchievementKind = "inferno_king"
)

// Achievement is a derived badge. Achievements are never stored: they are pure
// predicates over an account's lifetime aggregates, evaluated on read, so a
// threshold change never requires backfilling accounts.
type Achievement struct {
	Kind        AchievementKind `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tier        string          `json:"tier"`
}

// Lifetime-burn thresholds, in units.
const (
	fireStarterThreshold  Amount = 100
	flameFanaticThreshold Amount = 1000
	infernoKingThreshold  Amount = 10000
)

// AchievementsFor evaluates every achievement predicate against the account.
func AchievementsFor(acc Account) []Achievement {
	var out []Achievement
	if acc.ContributionCount >= 1 {
		out = append(out, Achievement{
			Kind:        AchievementFirstContribution,
			Name:        "First Spark",
			Description: "Made a first contribution",
			Tier:        "bronze",
		})
	}
	if acc.LifetimeBurned >= fireStarterThreshold {
		out = append(out, Achievement{
			Kind:        AchievementFireStarter,
			Name:        "Fire Starter",
			Description: "Lifetime burn of 100 units or more",
			Tier:        "bronze",
		})
	}
	if acc.LifetimeBurned >= flameFanaticThreshold {
		out = append(out, Achievement{
			Kind:        AchievementFlameFanatic,
			Name:        "Flame Fanatic",
			Description: "Lifetime burn of 1,000 units or more",
			Tier:        "silver",
		})
	}
	if acc.LifetimeBurned >= infernoKingThreshold {
		out = append(out, Achievement{
			Kind:        AchievementInfernoKing,
			Name:        "Inferno King",
			Description: "Lifetime burn of 10,000 units or more",
			Tier:        "gold",
		})
	}
	return out
}
