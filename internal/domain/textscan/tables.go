package textscan

// Category is a named keyword set with a severity weight. A category's
// contribution saturates at twice its weight no matter how many of its
// keywords match.
type Category struct {
	Name     string
	Label    string
	Weight   int
	Keywords []string
}

// defaultCategories are the built-in scam keyword categories. Order is
// significant: flags are emitted in this order.
func defaultCategories() []Category {
	return []Category{
		{
			Name:   "urgency",
			Label:  "Urgency tactics",
			Weight: 15,
			Keywords: []string{
				"now", "hurry", "quick", "fast", "urgent", "limited time",
				"last chance", "ending soon", "act now", "don't wait",
				"expires", "hurry up", "right now", "immediately", "asap",
			},
		},
		{
			Name:   "fomo",
			Label:  "FOMO (Fear of Missing Out) language",
			Weight: 20,
			Keywords: []string{
				"moon", "lambo", "rocket", "🚀", "x100", "x1000", "x10000",
				"to the moon", "don't miss", "regret", "next bitcoin",
				"next eth", "gem", "hidden gem", "before it's too late",
				"massive gains", "life changing", "retire", "financial freedom",
			},
		},
		{
			Name:   "guaranteed",
			Label:  "Unrealistic guarantees",
			Weight: 25,
			Keywords: []string{
				"guaranteed", "certain", "sure thing", "no risk", "can't lose",
				"safe bet", "100%", "definitely", "promise", "assured",
				"risk-free", "zero risk", "cannot fail", "will moon",
				"guaranteed profit", "guaranteed returns",
			},
		},
		{
			Name:   "pressure",
			Label:  "High-pressure tactics",
			Weight: 20,
			Keywords: []string{
				"dm me", "join now", "buy now", "act fast", "spots left",
				"slots available", "first 100", "limited spots", "whitelist",
				"exclusive access", "vip only", "members only", "invite only",
				"private group", "secret", "insider info",
			},
		},
		{
			Name:   "suspicious_offers",
			Label:  "Suspicious offers",
			Weight: 15,
			Keywords: []string{
				"airdrop", "giveaway", "free tokens", "free crypto", "presale",
				"private sale", "ico", "ido", "early access", "presale price",
				"bonus tokens", "double your", "triple your", "multiply your",
			},
		},
		{
			Name:   "pump_signals",
			Label:  "Pump & dump indicators",
			Weight: 30,
			Keywords: []string{
				"pump", "dump", "signal", "call", "target", "entry point",
				"exit point", "buy zone", "sell zone", "accumulation",
				"distribution", "pump group", "signal group", "trading signal",
				"buy signal", "sell signal",
			},
		},
		{
			Name:   "fake_authority",
			Label:  "False authority claims",
			Weight: 18,
			Keywords: []string{
				"expert", "professional trader", "whale", "insider",
				"team member", "advisor", "partner", "affiliated",
				"endorsed by", "recommended by", "approved by",
				"verified by", "certified",
			},
		},
	}
}

// scamPhrasePatterns are known scam phrase shapes. Only the first matching
// pattern contributes to the score.
var scamPhrasePatterns = []string{
	`send.*(?:btc|eth|usdt|bnb).*(?:receive|get)`,
	`\d+x.*guaranteed`,
	`double.*(?:bitcoin|crypto|money|investment)`,
	`triple.*(?:bitcoin|crypto|money|investment)`,
	`elon.*musk.*(?:giveaway|airdrop)`,
	`verify.*wallet.*(?:claim|receive)`,
	`connect.*wallet.*(?:claim|receive|get)`,
	`smart.*contract.*(?:guaranteed|safe|approved)`,
	`audit.*(?:passed|approved|verified).*trust`,
	`liquidity.*locked.*safe`,
}

// returnPromisePatterns detect unrealistic return promises. Each pattern
// type contributes at most once, on its first match with magnitude >= 100.
var returnPromisePatterns = []struct {
	Pattern string
	Label   string
}{
	{`(\d+)x\s*(?:profit|gain|return|moon)`, "X multiplier promise"},
	{`(\d+)%\s*(?:profit|gain|return|apy|apr)`, "Percentage return promise"},
	{`make\s*\$?(\d+k|\d+,\d+)`, "Specific dollar amount promise"},
	{`earn\s*\$?(\d+k|\d+,\d+)`, "Earning promise"},
}

// suspiciousDomains are link shorteners and invite hosts commonly used in
// scam promotions. First match only.
var suspiciousDomains = []string{
	"bit.ly", "tinyurl", "t.me/+", "discord.gg",
	"forms.gle", "rb.gy", "cutt.ly", "shorturl",
}

// walletPatterns are wallet-address shapes, checked in priority order.
var walletPatterns = []struct {
	Pattern string
	Label   string
}{
	{`0x[a-fA-F0-9]{40}`, "Ethereum address"},
	{`[13][a-km-zA-HJ-NP-Z1-9]{25,34}`, "Bitcoin address"},
	{`T[A-Za-z1-9]{33}`, "Tron address"},
}

// trustPhrases are defensive, trust-seeking phrases.
var trustPhrases = []string{
	"trust me", "believe me", "i promise", "honest",
	"legit", "not a scam", "legitimate", "100% real",
	"no scam", "real deal", "verified",
}

// timePressurePhrases are time-sensitive pressure phrases.
var timePressurePhrases = []string{
	"today only", "ends tonight", "midnight", "hours left",
	"minutes left", "expiring", "deadline", "countdown",
}

// emojiPattern covers the main emoji block plus common crypto emoji that
// fall outside it.
const emojiPattern = `[\x{1F300}-\x{1F9FF}]|🚀|💎|🙌|💰|📈|📊|🔥|⚡|💸|🤑|💵|💴`
