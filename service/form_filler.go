package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/cli"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/shopspring/decimal"

	"github.com/tradetax/k4-statement-service/dto"
)

// K4 AcroForm field names, section D (Övriga värdepapper). Row fields are
// indexed 0..n.
const (
	fieldTaxYear      = "Inkomstår"
	fieldPersOrgNr    = "TxtPersOrgNr[0]"
	fieldTaxpayerName = "TxtSkattskyldig-namn[0]"
	fieldPreparedOn   = "TxtDatFramst[0]"
	fieldDepot        = "Depå"
	fieldSumGain      = "TxtSummaVinst[0]"
	fieldSumLoss      = "TxtSummaForlust[0]"

	rowFieldQuantity      = "TxtAntal[%d]"
	rowFieldDescription   = "TxtBeteckning[%d]"
	rowFieldSalePrice     = "TxtForsaljningspris[%d]"
	rowFieldPurchasePrice = "TxtOmkostnadsbelopp[%d]"
	rowFieldGain          = "TxtVinst[%d]"
	rowFieldLoss          = "TxtForlust[%d]"
)

// maxDescriptionLen is the character capacity of a TxtBeteckning cell.
const maxDescriptionLen = 50

// MapFormFields converts the analysis result plus the user-supplied form
// input into a field-name to value mapping for the K4 template. Trades
// beyond maxRows are dropped; the count of dropped trades is returned so the
// caller can log a warning. Field names that do not exist in the template
// are ignored by the fill step downstream.
func MapFormFields(result dto.AnalysisResult, input dto.FormInput, now time.Time, maxRows int) (map[string]string, int) {
	fields := map[string]string{
		fieldPersOrgNr:    input.TaxpayerSIN,
		fieldTaxpayerName: input.TaxpayerName,
		fieldPreparedOn:   now.Format("2006-01-02"),
	}

	if input.TaxYear != "" {
		fields[fieldTaxYear] = input.TaxYear
	} else {
		fields[fieldTaxYear] = strconv.Itoa(now.Year())
	}

	if input.BrokerName != "" {
		fields[fieldDepot] = input.BrokerName + " - " + input.AccountNumber
	}

	dropped := 0
	for idx, trade := range result.Instruments {
		if idx >= maxRows {
			dropped = len(result.Instruments) - idx
			break
		}

		fields[fmt.Sprintf(rowFieldQuantity, idx)] = trade.Quantity
		fields[fmt.Sprintf(rowFieldDescription, idx)] = truncate(trade.Symbol+" - "+trade.Description, maxDescriptionLen)

		// Amounts round to whole SEK, ties half away from zero.
		if trade.SalePrice != nil {
			fields[fmt.Sprintf(rowFieldSalePrice, idx)] = trade.SalePrice.Round(0).String()
		}
		if trade.PurchasePrice != nil {
			fields[fmt.Sprintf(rowFieldPurchasePrice, idx)] = trade.PurchasePrice.Round(0).String()
		}

		gainLoss := decimal.Zero
		if trade.GainLoss != nil {
			gainLoss = *trade.GainLoss
		}
		rounded := gainLoss.Round(0)
		if rounded.IsPositive() {
			fields[fmt.Sprintf(rowFieldGain, idx)] = rounded.String()
		} else {
			fields[fmt.Sprintf(rowFieldLoss, idx)] = rounded.Abs().String()
		}
	}

	if result.TotalGain.IsPositive() {
		fields[fieldSumGain] = result.TotalGain.Round(0).String()
	}
	if result.TotalLoss.IsNegative() {
		fields[fieldSumLoss] = result.TotalLoss.Round(0).Abs().String()
	}

	return fields, dropped
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// pdfcpu form-fill JSON shape, matching `pdfcpu form fill`.
type fillTextField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

type fillForm struct {
	TextFields []fillTextField `json:"textfield"`
}

type fillDocument struct {
	Forms []fillForm `json:"forms"`
}

// FillForm loads the K4 template, applies the field mapping to its AcroForm
// and serializes the filled document to an in-memory buffer. Field names
// absent from the template are ignored.
func FillForm(templatePath string, fields map[string]string) (*bytes.Buffer, error) {
	template, err := os.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer template.Close()

	// Deterministic fill order.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := fillDocument{Forms: []fillForm{{}}}
	for _, name := range names {
		doc.Forms[0].TextFields = append(doc.Forms[0].TextFields, fillTextField{
			Name:  name,
			Value: fields[name],
		})
	}

	fillJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal form data: %w", err)
	}

	var buf bytes.Buffer
	conf := model.NewDefaultConfiguration()
	if err := api.FillForm(template, bytes.NewReader(fillJSON), &buf, conf); err != nil {
		return nil, fmt.Errorf("failed to fill form: %w", err)
	}

	return &buf, nil
}

// TemplateFieldNames lists the fillable field names of the template. Used
// for startup diagnostics when the form layout changes.
func TemplateFieldNames(templatePath string) ([]string, error) {
	return cli.ListFormFieldsFile([]string{templatePath}, model.NewDefaultConfiguration())
}
