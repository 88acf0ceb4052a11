package export

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/piwi3910/SlabQuote/internal/model"
)

var emailTemplate = template.Must(template.New("email").Parse(`Subject: Price quote{{if .Part}} - {{.Part}}{{end}}

Dear {{if .Customer}}{{.Customer}}{{else}}customer{{end}},

thank you for your inquiry. We are pleased to quote the following:

Part:       {{if .Part}}{{.Part}}{{else}}-{{end}}
Material:   {{.Material}}
Dimensions: {{.Dimensions}}
Quantity:   {{.Quantity}} pcs

Price per part: {{.PerPart}}
Total price:    {{.Total}}
{{if .Notes}}
Notes: {{.Notes}}
{{end}}
Prices exclude VAT. The quote is valid for 30 days.

Kind regards
`))

type emailData struct {
	Customer   string
	Part       string
	Material   string
	Dimensions string
	Quantity   int
	PerPart    string
	Total      string
	Notes      string
}

// QuoteEmail renders a plain text e-mail offering the quote to the customer.
func QuoteEmail(spec model.QuoteSpec, result model.CalculatedQuote, material model.MaterialDefinition) (string, error) {
	data := emailData{
		Customer:   spec.CustomerName,
		Part:       spec.PartName,
		Material:   materialName(spec, material),
		Dimensions: PartDimension(spec),
		Quantity:   spec.QuantityGood,
		PerPart:    CZK(result.PricePerPart),
		Total:      CZK(result.TotalPrice),
		Notes:      spec.Notes,
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering e-mail: %w", err)
	}
	return buf.String(), nil
}
