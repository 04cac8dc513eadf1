package refdata

// defaultContext is the framing used when a state has no specific entry.
const defaultContext = "small businesses, professional services firms, and regional brands"

// stateContext gives each state the industry framing woven into its prompts,
// so generated copy references the businesses that actually operate there.
var stateContext = map[string]string{
	"Alabama":        "aerospace suppliers, automotive manufacturers, and healthcare systems",
	"Alaska":         "fishing operations, tourism outfitters, and resource companies",
	"Arizona":        "semiconductor manufacturers, healthcare networks, and real estate firms",
	"Arkansas":       "retail suppliers, food producers, and logistics companies",
	"California":     "technology startups, entertainment studios, and e-commerce brands",
	"Colorado":       "outdoor recreation brands, aerospace firms, and craft breweries",
	"Connecticut":    "insurance carriers, financial services firms, and advanced manufacturers",
	"Delaware":       "incorporated businesses, financial services firms, and chemical companies",
	"Florida":        "tourism operators, healthcare providers, and international trade firms",
	"Georgia":        "logistics companies, film production houses, and fintech startups",
	"Hawaii":         "hospitality groups, tourism operators, and agricultural exporters",
	"Idaho":          "food processors, technology manufacturers, and outdoor recreation brands",
	"Illinois":       "financial exchanges, manufacturers, and professional services firms",
	"Indiana":        "advanced manufacturers, pharmaceutical companies, and motorsports businesses",
	"Iowa":           "insurance carriers, agricultural technology firms, and advanced manufacturers",
	"Kansas":         "aviation manufacturers, agricultural businesses, and animal health companies",
	"Kentucky":       "bourbon distilleries, automotive plants, and logistics hubs",
	"Louisiana":      "energy companies, port operators, and hospitality businesses",
	"Maine":          "seafood producers, tourism operators, and specialty retailers",
	"Maryland":       "biotech firms, government contractors, and cybersecurity companies",
	"Massachusetts":  "biotech companies, universities, and financial services firms",
	"Michigan":       "automotive manufacturers, mobility startups, and furniture makers",
	"Minnesota":      "medical device companies, retailers, and food producers",
	"Mississippi":    "shipbuilders, agricultural producers, and healthcare providers",
	"Missouri":       "agricultural businesses, financial services firms, and biosciences companies",
	"Montana":        "ranching operations, tourism outfitters, and technology remote workers",
	"Nebraska":       "insurance carriers, agricultural producers, and transportation companies",
	"Nevada":         "gaming and hospitality groups, logistics companies, and mining operations",
	"New Hampshire":  "advanced manufacturers, technology firms, and tourism operators",
	"New Jersey":     "pharmaceutical companies, logistics operators, and financial services firms",
	"New Mexico":     "national laboratories, film production companies, and aerospace startups",
	"New York":       "financial institutions, media companies, and fashion brands",
	"North Carolina": "banking institutions, research triangle startups, and furniture manufacturers",
	"North Dakota":   "energy producers, agricultural businesses, and drone technology firms",
	"Ohio":           "manufacturers, healthcare systems, and insurance companies",
	"Oklahoma":       "energy companies, aerospace maintenance firms, and agricultural businesses",
	"Oregon":         "footwear and apparel brands, semiconductor manufacturers, and wineries",
	"Pennsylvania":   "healthcare systems, manufacturers, and financial services firms",
	"Rhode Island":   "marine trades, design firms, and healthcare providers",
	"South Carolina": "automotive plants, aerospace manufacturers, and tourism operators",
	"South Dakota":   "financial services firms, healthcare systems, and agricultural producers",
	"Tennessee":      "healthcare companies, music industry businesses, and logistics operators",
	"Texas":          "energy companies, technology firms, and healthcare systems",
	"Utah":           "software companies, outdoor recreation brands, and financial services firms",
	"Vermont":        "specialty food producers, craft brewers, and outdoor recreation brands",
	"Virginia":       "government contractors, data center operators, and shipbuilders",
	"Washington":     "software companies, aerospace manufacturers, and global retailers",
	"West Virginia":  "energy producers, chemical manufacturers, and tourism operators",
	"Wisconsin":      "manufacturers, dairy producers, and insurance carriers",
	"Wyoming":        "energy companies, ranching operations, and tourism outfitters",
}
