package model

// Bot strategy constants
const (
	BotStrategyRandom = "random"
	BotStrategyCycle  = "cycle"
)

// BotStrategyDisplayName returns a human-readable label for a strategy
func BotStrategyDisplayName(strategy string) string {
	switch strategy {
	case BotStrategyRandom:
		return "Random"
	case BotStrategyCycle:
		return "Cycle"
	default:
		return strategy
	}
}

// ValidBotStrategies returns all valid bot strategy names
func ValidBotStrategies() []string {
	return []string{BotStrategyRandom, BotStrategyCycle}
}

// BotPlayerID returns the registry id of the house bot playing a strategy
func BotPlayerID(strategy string) PlayerID {
	return PlayerID("bot-" + strategy)
}
