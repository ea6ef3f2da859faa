package dto

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TradeRecord is one trade extracted from a model reply. The numeric fields
// are pointers: a field the model omitted or rendered unparsable stays nil
// instead of defaulting to zero.
type TradeRecord struct {
	Symbol        string           `json:"symbol,omitempty"`
	Description   string           `json:"description,omitempty"`
	Quantity      string           `json:"quantity,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	GainLoss      *decimal.Decimal `json:"gain_loss,omitempty"`
}

// AnalysisResult aggregates all trades found across the chunks of one
// statement. Instruments keep the order trades were encountered in.
// TotalGain sums the strictly positive gain/loss values; TotalLoss sums the
// rest and stays <= 0.
type AnalysisResult struct {
	Instruments []TradeRecord   `json:"instruments"`
	TotalGain   decimal.Decimal `json:"total_gain"`
	TotalLoss   decimal.Decimal `json:"total_loss"`
}

// FormInput carries the user-supplied identity and account fields merged
// with the analysis result before form mapping.
type FormInput struct {
	TaxYear       string `form:"tax_year"`
	BrokerName    string `form:"broker_name"`
	AccountNumber string `form:"account_number"`
	TaxpayerName  string `form:"taxpayer_name"`
	TaxpayerSIN   string `form:"taxpayer_sin"`
}

// Validate checks that every required form field is present.
func (f *FormInput) Validate() error {
	switch {
	case f.TaxYear == "":
		return errors.New("tax_year is required")
	case f.BrokerName == "":
		return errors.New("broker_name is required")
	case f.AccountNumber == "":
		return errors.New("account_number is required")
	case f.TaxpayerName == "":
		return errors.New("taxpayer_name is required")
	case f.TaxpayerSIN == "":
		return errors.New("taxpayer_sin is required")
	}
	return nil
}
