package service

import "fmt"

// analysisPromptTemplate instructs the model to emit each trade as a
// delimited block with six labeled fields. The parser in utils depends on
// this exact grammar.
const analysisPromptTemplate = `Analyze the following Interactive Brokers activity statement and extract information for Skatteverket K4 form tax reporting.
Focus on futures trades in section D (Övriga värdepapper).

Please format your response exactly as follows for each trade:
TRADE_START
Symbol: [instrument symbol]
Description: [instrument description]
Quantity: [number of contracts]
SalePriceSEK: [total sale price in SEK]
PurchasePriceSEK: [total purchase price in SEK]
GainLossSEK: [gain/loss amount in SEK]
TRADE_END

Activity Statement:
%s

Provide exact numbers without formatting (no thousands separators). Use negative numbers for losses.`

// BuildAnalysisPrompt embeds one statement segment into the extraction
// instructions. Pure function: same segment, same prompt.
func BuildAnalysisPrompt(segment string) string {
	return fmt.Sprintf(analysisPromptTemplate, segment)
}
