package refdata

// keywordLinks is the ordered service keyword table. Longer, more specific
// phrases come first; insertion order is the tie-break when two phrases of the
// same length match the same span. Paths are joined to the site base URL.
var keywordLinks = []struct {
	Phrase string
	URL    string
}{
	{"custom WordPress development", "/services/custom-wordpress-development/"},
	{"WordPress plugin development", "/services/wordpress-plugin-development/"},
	{"WordPress maintenance and support", "/services/wordpress-maintenance/"},
	{"WordPress security audits", "/services/wordpress-security/"},
	{"white label WordPress development", "/services/white-label-wordpress/"},
	{"WordPress migration", "/services/wordpress-migration/"},
	{"API integrations", "/services/api-integrations/"},
	{"WordPress development", "/services/wordpress-development/"},
	{"WordPress support", "/services/wordpress-support/"},
	{"digital agencies", "/work-with-agencies/"},
}

// internalServicePaths are the known internal paths whose anchors the relink
// pass strips (text preserved) before re-running keyword linking.
var internalServicePaths = []string{
	"/services/custom-wordpress-development/",
	"/services/wordpress-plugin-development/",
	"/services/wordpress-maintenance/",
	"/services/wordpress-security/",
	"/services/white-label-wordpress/",
	"/services/wordpress-migration/",
	"/services/api-integrations/",
	"/services/wordpress-development/",
	"/services/wordpress-support/",
	"/work-with-agencies/",
	"/contact/",
	"/projects/",
}

// bannedPhrases is generated-copy boilerplate that gets flagged in the final
// document. Detection is advisory: matches are logged, never blocking, since
// regeneration costs another API round-trip and matching is fuzzy.
var bannedPhrases = []string{
	"in today's digital landscape",
	"in today's fast-paced world",
	"look no further",
	"unlock the potential",
	"unlock your",
	"elevate your",
	"take your business to the next level",
	"game-changer",
	"game changing",
	"cutting-edge",
	"seamless experience",
	"seamlessly integrate",
	"delve into",
	"navigating the",
	"in the ever-evolving",
	"ever-changing landscape",
	"robust solutions",
	"harness the power",
	"empower your business",
	"revolutionize",
}
