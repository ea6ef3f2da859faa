package utils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradetax/k4-statement-service/dto"
)

// Trade block grammar produced by the analysis prompt.
var (
	tradeBlockRegex = regexp.MustCompile(`(?s)TRADE_START(.*?)TRADE_END`)

	symbolRegex        = regexp.MustCompile(`Symbol: (.+)`)
	descriptionRegex   = regexp.MustCompile(`Description: (.+)`)
	quantityRegex      = regexp.MustCompile(`Quantity: (.+)`)
	salePriceRegex     = regexp.MustCompile(`SalePriceSEK: (.+)`)
	purchasePriceRegex = regexp.MustCompile(`PurchasePriceSEK: (.+)`)
	gainLossRegex      = regexp.MustCompile(`GainLossSEK: (.+)`)
)

// countsAsGain decides which total a trade contributes to. Only strictly
// positive amounts count as gains; zero lands in the loss bucket.
func countsAsGain(gainLoss decimal.Decimal) bool {
	return gainLoss.IsPositive()
}

// ParseModelReplies scans the raw model replies, one per statement chunk and
// in chunk order, for delimited trade blocks and accumulates the gain/loss
// totals. A block yields a record only if at least one field parsed; a
// labeled field with an unparsable number is dropped silently so the rest of
// the record is still salvaged.
func ParseModelReplies(replies []string) dto.AnalysisResult {
	result := dto.AnalysisResult{
		Instruments: []dto.TradeRecord{},
		TotalGain:   decimal.Zero,
		TotalLoss:   decimal.Zero,
	}

	for _, reply := range replies {
		for _, block := range tradeBlockRegex.FindAllStringSubmatch(reply, -1) {
			record, ok := parseTradeBlock(block[1])
			if !ok {
				continue
			}
			result.Instruments = append(result.Instruments, record)

			gainLoss := decimal.Zero
			if record.GainLoss != nil {
				gainLoss = *record.GainLoss
			}
			if countsAsGain(gainLoss) {
				result.TotalGain = result.TotalGain.Add(gainLoss)
			} else {
				result.TotalLoss = result.TotalLoss.Add(gainLoss)
			}
		}
	}

	return result
}

// parseTradeBlock extracts whatever fields are present in one block. The
// bool reports whether anything usable was found.
func parseTradeBlock(blockText string) (dto.TradeRecord, bool) {
	var record dto.TradeRecord
	found := 0

	if v, ok := matchField(symbolRegex, blockText); ok {
		record.Symbol = v
		found++
	}
	if v, ok := matchField(descriptionRegex, blockText); ok {
		record.Description = v
		found++
	}
	if v, ok := matchField(quantityRegex, blockText); ok {
		record.Quantity = v
		found++
	}
	if d, ok := matchDecimalField(salePriceRegex, blockText); ok {
		record.SalePrice = d
		found++
	}
	if d, ok := matchDecimalField(purchasePriceRegex, blockText); ok {
		record.PurchasePrice = d
		found++
	}
	if d, ok := matchDecimalField(gainLossRegex, blockText); ok {
		record.GainLoss = d
		found++
	}

	return record, found > 0
}

func matchField(re *regexp.Regexp, text string) (string, bool) {
	matches := re.FindStringSubmatch(text)
	if len(matches) < 2 {
		return "", false
	}
	return strings.TrimSpace(matches[1]), true
}

func matchDecimalField(re *regexp.Regexp, text string) (*decimal.Decimal, bool) {
	raw, ok := matchField(re, text)
	if !ok {
		return nil, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		// Unparsable number: drop the field, keep the record.
		return nil, false
	}
	return &d, true
}
