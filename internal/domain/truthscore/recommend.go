package truthscore

import "github.com/truthfi/truthfi/internal/domain/types"

// Recommend maps a Truth Score to an actionable recommendation. The tiers
// use the same thresholds as the aggregate risk level.
func (s *Scorer) Recommend(score float64) types.Recommendation {
	switch {
	case score >= 75:
		return types.Recommendation{
			Recommendation: "PROCEED WITH CAUTION",
			Message: "This token shows relatively low risk indicators based on social media analysis. " +
				"However, always conduct your own research and never invest more than you can afford to lose.",
			Actions: []string{
				"Verify project legitimacy through official channels",
				"Check team credentials and project roadmap",
				"Review smart contract audits if available",
				"Start with small investment amounts",
				"Monitor for any changes in social sentiment",
			},
		}
	case score >= 55:
		return types.Recommendation{
			Recommendation: "EXERCISE CAUTION",
			Message: "Moderate risk detected in social media activity. " +
				"Additional verification is strongly recommended before any investment decision.",
			Actions: []string{
				"Investigate all red flags thoroughly",
				"Look for independent third-party audits",
				"Verify contract address on blockchain explorers",
				"Check for liquidity locks and tokenomics",
				"Avoid FOMO - take time for proper research",
				"Consult multiple information sources",
			},
		}
	case score >= 35:
		return types.Recommendation{
			Recommendation: "HIGH RISK - AVOID",
			Message: "Significant scam indicators detected in social media activity. " +
				"Investment is not recommended without extensive additional verification.",
			Actions: []string{
				"Do NOT invest based on social media hype alone",
				"Multiple red flags indicate possible manipulation",
				"If considering investment, wait for more information",
				"Consult with experienced crypto investors",
				"Be extremely wary of time pressure tactics",
				"Report suspicious activity to platform moderators",
			},
		}
	default:
		return types.Recommendation{
			Recommendation: "CRITICAL RISK - DO NOT INVEST",
			Message: "Strong scam indicators detected. This appears to be a fraudulent scheme or " +
				"heavily manipulated token. Do not invest under any circumstances.",
			Actions: []string{
				"DO NOT INVEST - high probability of scam",
				"Do not send any funds or connect wallets",
				"Report to relevant authorities and platforms",
				"Warn others in the community about this token",
				"Block and ignore promotional accounts",
				"If you already invested, seek immediate assistance",
			},
		}
	}
}
