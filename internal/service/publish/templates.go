// internal/service/publish/templates.go

package publish

import (
	"autopress/internal/domain/post"
)

// slotCategories maps a publication time slot to the template categories
// that fit it
var slotCategories = map[post.TimeSlot][]string{
	post.SlotMarketOpen:  {"market-analysis", "daily-outlook", "pre-market"},
	post.SlotMidday:      {"market-analysis", "education", "crypto"},
	post.SlotMarketClose: {"market-recap", "daily-outlook", "market-analysis"},
}

// Catalog is the fixed set of content templates. Immutable at runtime.
type Catalog struct {
	templates []post.Template
}

// NewCatalog creates the catalog with its built-in templates
func NewCatalog() *Catalog {
	return &Catalog{
		templates: []post.Template{
			newPreMarketBriefTemplate(),
			newDailyOutlookTemplate(),
			newMarketAnalysisTemplate(),
			newSectorWatchTemplate(),
			newMarketRecapTemplate(),
			newCryptoPulseTemplate(),
			newInvestingBasicsTemplate(),
		},
	}
}

// Templates returns all templates in catalog order
func (c *Catalog) Templates() []post.Template {
	out := make([]post.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// ByID returns the template with the given id, or nil
func (c *Catalog) ByID(id string) *post.Template {
	for i := range c.templates {
		if c.templates[i].ID == id {
			t := c.templates[i]
			return &t
		}
	}
	return nil
}

// CategoriesForSlot returns the template categories matching a time slot
func CategoriesForSlot(slot post.TimeSlot) []string {
	return slotCategories[slot]
}

func newPreMarketBriefTemplate() post.Template {
	return post.Template{
		ID:             "pre-market-brief",
		Category:       "pre-market",
		TitlePattern:   "Pre-Market Brief: What {keyword} Is Telling Traders Today",
		ExcerptPattern: "Futures, overnight moves and why {keyword} is on every watchlist this morning.",
		Intro:          "Before the opening bell, a handful of stories set the tone for the session. Today, attention centers on {keyword}.",
		Sections: []string{
			"Overnight futures point to a mixed open as traders digest the latest developments around {keyword}. Volume in pre-market trading has been concentrated in the usual large-cap names, with notable interest building where {keyword} is involved.",
			"Positioning data suggests institutions have been adjusting exposure ahead of the open. When a theme like {keyword} dominates the pre-market conversation, the first hour of trading often sees outsized moves as retail flow meets overnight orders.",
			"Key levels to watch today follow from yesterday's closing ranges. A decisive move early in the session, particularly if it confirms the narrative around {keyword}, tends to set the direction into midday.",
		},
		Conclusion: "The open will show whether the overnight enthusiasm holds. Keep position sizes sensible and let the first prints around {keyword} come to you.",
	}
}

func newDailyOutlookTemplate() post.Template {
	return post.Template{
		ID:             "daily-outlook",
		Category:       "daily-outlook",
		TitlePattern:   "Daily Outlook: {keyword} in Focus",
		ExcerptPattern: "A practical look at the trading day ahead, with {keyword} at the center of the action.",
		Intro:          "Every trading day has a theme, and today that theme is {keyword}. Here is what matters and what can safely be ignored.",
		Sections: []string{
			"The macro backdrop remains the frame for everything else. Rates, the dollar and risk appetite all feed into how a story like {keyword} gets priced, and right now the market is paying close attention.",
			"On the single-name side, watch how leaders in the space respond. Strength that broadens beyond the obvious names would suggest the interest in {keyword} has legs rather than being a one-day headline trade.",
			"Risk management matters more than prediction. If the thesis around {keyword} is wrong, the market will say so quickly, and the right response is to listen rather than argue.",
		},
		Conclusion: "Stay flexible. Whether {keyword} delivers or disappoints today, the discipline is the same: plan the trade, trade the plan.",
	}
}

func newMarketAnalysisTemplate() post.Template {
	return post.Template{
		ID:             "market-analysis",
		Category:       "market-analysis",
		TitlePattern:   "Why Everyone Is Talking About {keyword} Right Now",
		ExcerptPattern: "A deeper look at the forces behind the surge of interest in {keyword} and what it means for investors.",
		Intro:          "Market narratives come and go, but occasionally one earns the attention it gets. The current conversation around {keyword} is worth unpacking properly.",
		Sections: []string{
			"Start with the flows. Money has been rotating toward {keyword} across several sessions, visible in both volume and breadth. That kind of persistence usually separates a genuine shift from a social-media spike.",
			"The fundamental case matters too. Valuations, earnings trajectories and positioning all frame how much of the move in {keyword} is justified and how much is momentum chasing momentum.",
			"History offers useful context: themes that arrive this fast often retrace part of the move before finding a sustainable trend. For {keyword}, the question is whether the underlying driver persists once the headlines fade.",
			"For long-term investors, the practical takeaway is about allocation, not timing. If {keyword} belongs in a portfolio, it belongs there at a size that survives a drawdown.",
		},
		Conclusion: "Hype fades; cash flows endure. Judge {keyword} by the second, not the first.",
	}
}

func newSectorWatchTemplate() post.Template {
	return post.Template{
		ID:             "sector-watch",
		Category:       "market-analysis",
		TitlePattern:   "Sector Watch: How {keyword} Is Reshaping the Landscape",
		ExcerptPattern: "Winners, losers and second-order effects as {keyword} works through the market.",
		Intro:          "Big themes rarely stay contained. What starts with {keyword} tends to ripple across suppliers, competitors and adjacent industries.",
		Sections: []string{
			"The first-order beneficiaries are easy to spot and largely priced. The more interesting question is which businesses quietly gain leverage from {keyword} without being labeled as part of the trade.",
			"On the losing side, capital that rotates toward {keyword} has to come from somewhere. Watching which sectors fund the move says a lot about how durable investors believe it is.",
			"Valuation dispersion inside the theme is widening. That usually rewards selectivity over buying the basket, especially once {keyword} has been front-page news for more than a week.",
		},
		Conclusion: "Themes like {keyword} reward investors who look one step further down the supply chain than the crowd.",
	}
}

func newMarketRecapTemplate() post.Template {
	return post.Template{
		ID:             "market-recap",
		Category:       "market-recap",
		TitlePattern:   "Market Recap: {keyword} Steals the Session",
		ExcerptPattern: "How the trading day unfolded, and why {keyword} ended up dominating the tape.",
		Intro:          "The closing bell has rung, and the story of the session was unmistakably {keyword}.",
		Sections: []string{
			"Price action told a clear story: early hesitation gave way to conviction as volume confirmed the move tied to {keyword}. Breadth improved through the afternoon, which matters more than the headline index change.",
			"Sector rotation followed the theme. Money flowed toward areas exposed to {keyword} while defensives lagged, a classic risk-on signature when a narrative takes hold.",
			"After hours, the follow-through will depend on overnight news. The market closed with momentum behind {keyword}, though positioning into tomorrow looks stretched in the short term.",
		},
		Conclusion: "One session is one data point. If {keyword} matters as much as today suggested, there will be better-informed entries in the days ahead.",
	}
}

func newCryptoPulseTemplate() post.Template {
	return post.Template{
		ID:             "crypto-pulse",
		Category:       "crypto",
		TitlePattern:   "Crypto Pulse: {keyword} and the State of Digital Assets",
		ExcerptPattern: "On-chain activity, flows and sentiment around {keyword} in today's crypto market.",
		Intro:          "Crypto moves fast, and right now the pulse of the market runs through {keyword}.",
		Sections: []string{
			"Spot flows and derivatives positioning around {keyword} have diverged from the broader market, which usually precedes a volatility expansion in one direction or the other.",
			"On-chain data adds nuance: active addresses and transfer volumes tied to {keyword} are trending in a way that suggests genuine usage rather than pure speculation.",
			"Correlation with equities remains the swing factor. When risk assets wobble, {keyword} rarely escapes the gravity, whatever the crypto-native narrative says.",
		},
		Conclusion: "Volatility is the admission price in digital assets. Size positions in {keyword} accordingly and keep time horizons honest.",
	}
}

func newInvestingBasicsTemplate() post.Template {
	return post.Template{
		ID:             "investing-basics",
		Category:       "education",
		TitlePattern:   "Investing Basics: Making Sense of {keyword}",
		ExcerptPattern: "A plain-English explainer on {keyword} for investors who want signal, not noise.",
		Intro:          "When a term like {keyword} starts appearing everywhere, it helps to slow down and understand what it actually means for a portfolio.",
		Sections: []string{
			"First, the definition. Stripped of jargon, {keyword} describes a dynamic that has always existed in markets; the label is new, the mechanics are not.",
			"Second, the relevance. Most investors do not need to act on {keyword} at all. The ones who do are those whose allocation or risk tolerance is directly affected by it.",
			"Third, the common mistakes. Chasing {keyword} after the move, sizing too large, and confusing a good story with a good entry price account for most of the damage retail investors do to themselves.",
		},
		Conclusion: "Understanding {keyword} is useful; acting on it calmly is valuable. The difference between the two is most of what separates investing from gambling.",
	}
}
