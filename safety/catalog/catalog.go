package catalog

import (
	"regexp"
	"strings"
)

// Policy bucket a violating text is classified into. The first four are
// evaluated in declaration order by the classifier; DISTRESS and AUTONOMY
// are advisory and never touch account state.
type Category string

const (
	CategoryCSAM     Category = "CSAM"
	CategoryViolence Category = "VIOLENCE"
	CategoryNSFW     Category = "NSFW"
	CategoryIllegal  Category = "ILLEGAL"
	CategoryDistress Category = "DISTRESS"
	CategoryAutonomy Category = "AUTONOMY"
)

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityAdvisory Severity = "ADVISORY"
)

// Severity recorded on violation ledger entries for this category.
func (c Category) Severity() Severity {
	switch c {
	case CategoryCSAM, CategoryViolence:
		return SeverityCritical
	case CategoryNSFW, CategoryIllegal:
		return SeverityHigh
	default:
		return SeverityAdvisory
	}
}

// InstantBan indicates a single hit is sufficient to escalate the account,
// with no counting of prior history.
func (c Category) InstantBan() bool {
	return c == CategoryCSAM || c == CategoryViolence
}

// Progressive categories write a ledger entry and feed the violation
// counters, escalating the account only past a threshold.
func (c Category) Progressive() bool {
	return c == CategoryNSFW || c == CategoryIllegal
}

type categoryPatterns struct {
	Category Category
	Patterns []*regexp.Regexp
}

// Catalog holds the compiled rule sets. It is constructed once at process
// start and shared read-only between all requests; never mutate it.
type Catalog struct {
	content  []categoryPatterns
	distress []*regexp.Regexp
	autonomy []*regexp.Regexp

	instructionPhrases []string
	educationalMarkers []string

	videoViolenceKeywords []string
}

var defaultCSAMPatterns = []string{
	`\b(child|kid|minor|underage|teen|preteen|loli|shota)\b.*\b(sex|nude|naked|porn|explicit)\b`,
	`\b(sex|porn|explicit|nude)\b.*\b(child|kid|minor|underage|teen)\b`,
	`\bcp\b`,
	`\bcsam\b`,
	`\bchild\s*porn`,
}

var defaultViolencePatterns = []string{
	`\bhow\s+to\s+(kill|murder|harm|hurt|abuse|torture)\b`,
	`\b(kill|murder|harm)\s+(myself|yourself|someone)\b`,
	`\bmake\s+a\s+(bomb|weapon|explosive)\b`,
	`\b(rape|molest|assault)\b`,
}

var defaultNSFWPatterns = []string{
	`\b(porn|pornography|xxx|nsfw|hentai|explicit|sex\s*tape)\b`,
	`\b(nude|naked|undress|strip)\s+(pic|photo|image|video)\b`,
	`\b(dick|cock|pussy|tits|ass)\s+pic`,
}

var defaultIllegalPatterns = []string{
	`\bhow\s+to\s+(hack|crack|pirate|steal)\b`,
	`\b(buy|sell|make|cook)\s+(drugs|meth|cocaine|heroin)\b`,
	`\bsteal\s+(credit\s*card|identity|password)\b`,
}

var defaultDistressPatterns = []string{
	`\b(help|stop|don't|please\s+no)\b.*\b(hurting|hitting|touching)\b`,
	`\b(someone|he|she)\s+is\s+(hurting|hitting|attacking)\s+me\b`,
	`\bcall\s+(police|911|help)\b`,
}

var defaultAutonomyPatterns = []string{
	`\b(pretend|act\s+like|roleplay)\b.*\b(slave|servant|property)\b`,
	`\bdo\s+whatever\s+i\s+say\b`,
	`\bdon't\s+question\s+me\b`,
}

// Phrases marking an instruction-seeking request; the educational
// exception is only considered when one of these is present.
var defaultInstructionPhrases = []string{
	"how to", "teach me", "show me", "help me",
}

// Inquiry markers which, together with an instruction phrase, suppress an
// ILLEGAL match as apparently-educational.
var defaultEducationalMarkers = []string{
	"why", "what is", "explain", "understand", "learn about",
	"curious", "wondering", "does", "is it", "history of",
}

// Single-word tags matched against tokenized video context summaries.
var defaultVideoViolenceKeywords = []string{
	"hitting", "striking", "weapon", "blood", "violence", "attack",
}

func compileAll(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// Default compiles the built-in rule sets. Call once at startup and inject
// the result wherever a Catalog is needed.
func Default() *Catalog {
	return &Catalog{
		content: []categoryPatterns{
			{CategoryCSAM, compileAll(defaultCSAMPatterns)},
			{CategoryViolence, compileAll(defaultViolencePatterns)},
			{CategoryNSFW, compileAll(defaultNSFWPatterns)},
			{CategoryIllegal, compileAll(defaultIllegalPatterns)},
		},
		distress:              compileAll(defaultDistressPatterns),
		autonomy:              compileAll(defaultAutonomyPatterns),
		instructionPhrases:    defaultInstructionPhrases,
		educationalMarkers:    defaultEducationalMarkers,
		videoViolenceKeywords: defaultVideoViolenceKeywords,
	}
}

// MatchContent checks lower-cased text against the content categories in
// priority order, returning the first category hit. Lower-priority
// categories are not evaluated once a higher one matches.
func (c *Catalog) MatchContent(text string) (Category, bool) {
	for _, cp := range c.content {
		for _, pat := range cp.Patterns {
			if pat.MatchString(text) {
				return cp.Category, true
			}
		}
	}
	return "", false
}

func matchAny(pats []*regexp.Regexp, text string) bool {
	for _, pat := range pats {
		if pat.MatchString(text) {
			return true
		}
	}
	return false
}

func (c *Catalog) MatchDistress(text string) bool {
	return matchAny(c.distress, text)
}

func (c *Catalog) MatchAutonomy(text string) bool {
	return matchAny(c.autonomy, text)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func (c *Catalog) HasInstructionPhrase(text string) bool {
	return containsAny(text, c.instructionPhrases)
}

func (c *Catalog) HasEducationalMarker(text string) bool {
	return containsAny(text, c.educationalMarkers)
}

func (c *Catalog) VideoViolenceKeywords() []string {
	return c.videoViolenceKeywords
}
