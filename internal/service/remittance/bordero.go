package remittance

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/folhacerta/folha-backend-go/internal/domain/remittance"
	"github.com/folhacerta/folha-backend-go/internal/pkg/money"
)

// BuildManifest turns the ordered payment records into the borderô
// structure consumed by the PDF renderer. Pure transformation: no I/O,
// totals computed in cents.
func BuildManifest(records []remittance.PaymentRecord, req remittance.GenerateRequest, generatedAt time.Time) (remittance.Manifest, error) {
	if len(records) == 0 {
		return remittance.Manifest{}, remittance.ErrEmptyRemittance
	}

	manifest := remittance.Manifest{
		PeriodLabel: fmt.Sprintf("%02d/%04d", req.Month, req.Year),
		GeneratedAt: generatedAt,
		Lines:       make([]remittance.ManifestLine, len(records)),
	}
	if req.CompanyCode != nil {
		manifest.CompanyCode = *req.CompanyCode
	}
	if req.CostCenter != nil {
		manifest.CostCenter = *req.CostCenter
	}

	var total money.Cents
	for i, r := range records {
		costCenter := ""
		if r.CostCenter != nil {
			costCenter = *r.CostCenter
		}
		manifest.Lines[i] = remittance.ManifestLine{
			EmployeeID:    r.EmployeeID,
			EmployeeName:  r.EmployeeName,
			CostCenter:    costCenter,
			AmountCents:   r.Amount,
			AmountDisplay: r.Amount.Format(),
		}
		total = total.Add(r.Amount)
	}
	manifest.TotalCents = total
	manifest.TotalDisplay = total.Format()

	return manifest, nil
}

var borderoTemplate = template.Must(template.New("bordero").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Borderô de Pagamento {{.Manifest.PeriodLabel}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; margin: 32px; }
  h1 { font-size: 18px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { border: 1px solid #444; padding: 4px 8px; text-align: left; }
  td.amount, th.amount { text-align: right; }
  tfoot td { font-weight: bold; }
  .meta { color: #555; margin-top: 4px; }
</style>
</head>
<body>
<h1>Borderô de Pagamento — {{.Manifest.PeriodLabel}}</h1>
<p class="meta">{{.CompanyName}}{{if .Manifest.CompanyCode}} — Empresa {{.Manifest.CompanyCode}}{{end}}{{if .Manifest.CostCenter}} — Centro de custo {{.Manifest.CostCenter}}{{end}}</p>
<p class="meta">Gerado em {{.GeneratedAt}}</p>
<table>
<thead>
<tr><th>#</th><th>Funcionário</th><th>Centro de custo</th><th class="amount">Valor (R$)</th></tr>
</thead>
<tbody>
{{range $i, $line := .Manifest.Lines}}<tr><td>{{inc $i}}</td><td>{{$line.EmployeeName}}</td><td>{{$line.CostCenter}}</td><td class="amount">{{$line.AmountDisplay}}</td></tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="3">Total ({{len .Manifest.Lines}} pagamentos)</td><td class="amount">{{.Manifest.TotalDisplay}}</td></tr>
</tfoot>
</table>
</body>
</html>
`))

// renderBorderoHTML produces the HTML handed to the Gotenberg renderer.
func renderBorderoHTML(manifest remittance.Manifest, companyName string) (string, error) {
	var b strings.Builder
	data := struct {
		Manifest    remittance.Manifest
		CompanyName string
		GeneratedAt string
	}{
		Manifest:    manifest,
		CompanyName: companyName,
		GeneratedAt: manifest.GeneratedAt.Format("02/01/2006 15:04"),
	}
	if err := borderoTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render bordero template: %w", err)
	}
	return b.String(), nil
}
