// internal/service/trends/vocab.go

package trends

import (
	"regexp"
	"strings"

	"autopress/internal/domain/signal"
)

var (
	tickerPattern  = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
	nonWordPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// tickerVocabulary is the fixed set of stock symbols we recognize in
// free text
var tickerVocabulary = map[string]struct{}{
	"AAPL": {}, "MSFT": {}, "GOOGL": {}, "AMZN": {}, "NVDA": {},
	"META": {}, "TSLA": {}, "AMD": {}, "INTC": {}, "NFLX": {},
	"SPY": {}, "QQQ": {}, "DIA": {}, "IWM": {}, "VTI": {},
	"JPM": {}, "BAC": {}, "GS": {}, "V": {}, "MA": {},
	"COIN": {}, "MSTR": {}, "PLTR": {}, "SOFI": {}, "HOOD": {},
}

// cryptoVocabulary maps crypto symbols and common names
var cryptoVocabulary = map[string]string{
	"BTC": "BTC", "BITCOIN": "BTC",
	"ETH": "ETH", "ETHEREUM": "ETH",
	"SOL": "SOL", "SOLANA": "SOL",
	"XRP": "XRP", "DOGE": "DOGE", "ADA": "ADA",
}

// topicVocabulary maps lowercase topic phrases to canonical keywords
var topicVocabulary = map[string]string{
	"fed":            "Federal Reserve",
	"federal reserve": "Federal Reserve",
	"interest rate":  "interest rates",
	"interest rates": "interest rates",
	"inflation":      "inflation",
	"recession":      "recession",
	"earnings":       "earnings season",
	"ipo":            "IPO",
	"dividend":       "dividends",
	"etf":            "ETF investing",
	"ai":             "AI stocks",
	"artificial intelligence": "AI stocks",
	"crypto":         "cryptocurrency",
	"tariff":         "tariffs",
	"tariffs":        "tariffs",
	"jobs report":    "jobs report",
	"gdp":            "GDP growth",
	"treasury":       "treasury yields",
	"oil":            "oil prices",
	"gold":           "gold",
}

// tickerStoplist excludes common words and acronyms that match the
// ticker pattern but are almost never symbol mentions
var tickerStoplist = map[string]struct{}{
	"CEO": {}, "CFO": {}, "IPO": {}, "ETF": {}, "SEC": {}, "FED": {},
	"USA": {}, "USD": {}, "GDP": {}, "AI": {}, "API": {}, "ATH": {},
	"YOLO": {}, "FOMO": {}, "DD": {}, "TLDR": {}, "EDIT": {}, "IMO": {},
	"THE": {}, "AND": {}, "FOR": {}, "ARE": {}, "NOT": {}, "ALL": {},
	"NEW": {}, "NOW": {}, "WHY": {}, "HOW": {}, "BUY": {}, "SELL": {},
	"EPS": {}, "PE": {}, "YTD": {}, "UK": {}, "EU": {}, "US": {},
}

// ExtractKeywords scans free text for known tickers, crypto symbols and
// topic phrases. Extraction is conservative: an uppercase token only
// counts as a ticker when it is in the vocabulary and not stoplisted.
func ExtractKeywords(text string) []signal.Signal {
	var out []signal.Signal
	seen := make(map[string]struct{})

	add := func(keyword string, kind signal.Type) {
		key := strings.ToLower(keyword)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, signal.Signal{Keyword: keyword, Type: kind})
	}

	for _, token := range tickerPattern.FindAllString(text, -1) {
		if _, stop := tickerStoplist[token]; stop {
			continue
		}
		if symbol, ok := cryptoVocabulary[token]; ok {
			add(symbol, signal.TypeCrypto)
			continue
		}
		if _, ok := tickerVocabulary[token]; ok {
			add(token, signal.TypeTicker)
		}
	}

	// Normalize to spaces so phrase matching respects word boundaries
	// ("oil" must not match inside "turmoil")
	normalized := " " + nonWordPattern.ReplaceAllString(strings.ToLower(text), " ") + " "

	// Crypto assets are commonly written by name rather than symbol
	for _, word := range strings.Fields(normalized) {
		if symbol, ok := cryptoVocabulary[strings.ToUpper(word)]; ok {
			add(symbol, signal.TypeCrypto)
		}
	}

	for phrase, canonical := range topicVocabulary {
		if strings.Contains(normalized, " "+phrase+" ") {
			if symbol, ok := cryptoVocabulary[strings.ToUpper(canonical)]; ok {
				add(symbol, signal.TypeCrypto)
				continue
			}
			add(canonical, signal.TypeTopic)
		}
	}

	// Dollar-prefixed symbols are explicit mentions and bypass the
	// vocabulary check, but still honor the stoplist
	for _, field := range strings.Fields(text) {
		if !strings.HasPrefix(field, "$") || len(field) < 2 {
			continue
		}
		symbol := strings.ToUpper(strings.Trim(field[1:], ".,!?:;()"))
		if symbol == "" || !isAlpha(symbol) {
			continue
		}
		if _, stop := tickerStoplist[symbol]; stop {
			continue
		}
		if crypto, ok := cryptoVocabulary[symbol]; ok {
			add(crypto, signal.TypeCrypto)
		} else {
			add(symbol, signal.TypeTicker)
		}
	}

	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
