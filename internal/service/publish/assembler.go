// internal/service/publish/assembler.go

package publish

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"autopress/internal/domain/post"
	"autopress/internal/domain/signal"
)

const (
	recentTemplateWindow = 5
	maxTrendingKeywords  = 3
	evergreenKeywords    = 2
	defaultPrimaryKeyword = "stock market analysis"
	constantTag           = "investing"
	slugMaxLength         = 60
)

// evergreenPool is the static SEO keyword list mixed into every post
var evergreenPool = []string{
	"portfolio diversification",
	"long-term investing",
	"market volatility",
	"passive income",
	"risk management",
	"compound interest",
	"value investing",
	"index funds",
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// AssemblerConfig contains configuration for the assembler
type AssemblerConfig struct {
	Author string
}

// Assembler selects a template and blends ranked keywords into it to
// produce a complete Post. The random source is injectable so selection
// and coin flips are deterministic under test.
type Assembler struct {
	catalog *Catalog
	config  AssemblerConfig
	rand    *rand.Rand
	log     *logrus.Logger
	now     func() time.Time
}

// NewAssembler creates a new assembler
func NewAssembler(catalog *Catalog, config AssemblerConfig, rng *rand.Rand, log *logrus.Logger) *Assembler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if config.Author == "" {
		config.Author = "Market Desk"
	}

	return &Assembler{
		catalog: catalog,
		config:  config,
		rand:    rng,
		log:     log,
		now:     time.Now,
	}
}

// Assemble produces a complete post for the given time slot from the
// ranked keyword pool, avoiding templates used by the most recent posts
func (a *Assembler) Assemble(slot post.TimeSlot, ranked []signal.RankedKeyword, recent []post.Post) (post.Post, error) {
	template := a.selectTemplate(slot, recent)
	if template == nil {
		return post.Post{}, fmt.Errorf("no template available for slot %s", slot)
	}

	trending := ranked
	if len(trending) > maxTrendingKeywords {
		trending = trending[:maxTrendingKeywords]
	}

	evergreen := a.pickEvergreen(evergreenKeywords)

	primary := defaultPrimaryKeyword
	if len(trending) > 0 {
		primary = trending[0].Keyword
	}

	var keywordsUsed []string
	for _, kw := range trending {
		keywordsUsed = append(keywordsUsed, kw.Keyword)
	}
	keywordsUsed = append(keywordsUsed, evergreen...)

	title := substitute(template.TitlePattern, primary)
	excerpt := substitute(template.ExcerptPattern, primary)
	content := a.buildContent(*template, primary, keywordsUsed)

	published := a.now()

	p := post.Post{
		ID:           uuid.New().String(),
		Title:        title,
		Slug:         Slugify(title),
		Excerpt:      excerpt,
		Content:      content,
		Category:     template.Category,
		Tags:         buildTags(template.Category, keywordsUsed, published.Year()),
		Author:       a.config.Author,
		Image:        fmt.Sprintf("/images/blog/%s.jpg", template.ID),
		ReadTime:     readTime(content),
		PublishedAt:  published,
		KeywordsUsed: keywordsUsed,
		ViralScore:   viralScore(trending, keywordsUsed),
		TemplateID:   template.ID,
	}

	a.log.WithFields(logrus.Fields{
		"template": template.ID,
		"slug":     p.Slug,
		"primary":  primary,
	}).Info("Post assembled")

	return p, nil
}

// selectTemplate picks a template for the slot, excluding templates used
// by the last few posts, with a weighted random choice among candidates
func (a *Assembler) selectTemplate(slot post.TimeSlot, recent []post.Post) *post.Template {
	all := a.catalog.Templates()
	if len(all) == 0 {
		return nil
	}

	excluded := make(map[string]struct{})
	for i, p := range recent {
		if i >= recentTemplateWindow {
			break
		}
		excluded[p.TemplateID] = struct{}{}
	}

	var fresh []post.Template
	for _, t := range all {
		if _, used := excluded[t.ID]; !used {
			fresh = append(fresh, t)
		}
	}

	categories := make(map[string]struct{})
	for _, c := range CategoriesForSlot(slot) {
		categories[c] = struct{}{}
	}

	var candidates []post.Template
	for _, t := range fresh {
		if _, ok := categories[t.Category]; ok {
			candidates = append(candidates, t)
		}
	}

	// Fall back to any non-recently-used template, then to the full
	// catalog as a last resort
	if len(candidates) == 0 {
		candidates = fresh
	}
	if len(candidates) == 0 {
		candidates = all
	}

	selected := a.weightedPick(candidates)
	return &selected
}

// weightedPick assigns each candidate a random weight scaled by a mild
// position bias and samples by cumulative weight
func (a *Assembler) weightedPick(candidates []post.Template) post.Template {
	if len(candidates) == 1 {
		return candidates[0]
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i := range candidates {
		weights[i] = a.rand.Float64() * (1 + float64(i)*0.1)
		total += weights[i]
	}

	if total == 0 {
		return candidates[len(candidates)-1]
	}

	target := a.rand.Float64() * total
	cumulative := 0.0
	for i := range candidates {
		cumulative += weights[i]
		if target <= cumulative {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// buildContent renders the template sections with the primary keyword
// substituted everywhere, appending a secondary-keyword sentence to
// roughly half the body sections
func (a *Assembler) buildContent(t post.Template, primary string, keywords []string) string {
	var secondary []string
	for _, kw := range keywords {
		if !strings.EqualFold(kw, primary) {
			secondary = append(secondary, kw)
		}
	}

	var b strings.Builder
	b.WriteString(substitute(t.Intro, primary))
	b.WriteString("\n\n")

	for _, section := range t.Sections {
		b.WriteString(substitute(section, primary))
		// Coin flip per section keeps the addendum from becoming
		// mechanical
		if len(secondary) > 0 && a.rand.Float64() < 0.5 {
			b.WriteString(" Related themes worth watching include ")
			b.WriteString(strings.Join(secondary, ", "))
			b.WriteString(".")
		}
		b.WriteString("\n\n")
	}

	b.WriteString(substitute(t.Conclusion, primary))
	return b.String()
}

func (a *Assembler) pickEvergreen(n int) []string {
	if n > len(evergreenPool) {
		n = len(evergreenPool)
	}

	picked := make([]string, 0, n)
	for _, idx := range a.rand.Perm(len(evergreenPool))[:n] {
		picked = append(picked, evergreenPool[idx])
	}
	return picked
}

func substitute(pattern, keyword string) string {
	return strings.ReplaceAll(pattern, "{keyword}", keyword)
}

// Slugify derives a URL slug: lower-cased, non-alphanumeric runs
// collapsed to single hyphens, truncated to a fixed length
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > slugMaxLength {
		slug = strings.Trim(slug[:slugMaxLength], "-")
	}
	return slug
}

// readTime estimates reading time in minutes at 200 words per minute
func readTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / 200.0))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// viralScore averages the trending-keyword scores used, capped at 1.0.
// Posts built only from evergreen keywords get a small floor; posts with
// no keywords at all get zero.
func viralScore(trending []signal.RankedKeyword, keywordsUsed []string) float64 {
	if len(trending) > 0 {
		sum := 0.0
		for _, kw := range trending {
			sum += kw.Score
		}
		score := sum / float64(len(trending))
		if score > 1 {
			score = 1
		}
		return score
	}
	if len(keywordsUsed) > 0 {
		return 0.2
	}
	return 0
}

// buildTags produces the tag list: category, up to four keywords, the
// publication year and a constant tag, de-duplicated
func buildTags(category string, keywords []string, year int) []string {
	tags := []string{category}

	for i, kw := range keywords {
		if i >= 4 {
			break
		}
		tags = append(tags, strings.ToLower(kw))
	}

	tags = append(tags, fmt.Sprintf("%d", year), constantTag)

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
