package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

var reportFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrgReport renders the run as an org-mode research note at path.
func (r *RunRecord) WriteOrgReport(path string) error {
	t, err := template.New("run").Funcs(reportFuncs).Parse(orgReportTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const orgReportTemplate = `
* BACKTEST: {{.Strategy}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:STRATEGY:    {{.Strategy}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_BAL:   {{printf "%.2f" .InitialCash}}
:END_BAL:     {{printf "%.2f" .FinalEquity}}
:RETURN_PCT:  {{printf "%.2f" (mul100 .TotalReturn)}}
:CAGR_PCT:    {{printf "%.2f" (mul100 .CAGR)}}
:VOL_PCT:     {{printf "%.2f" (mul100 .Volatility)}}
:SHARPE:      {{printf "%.2f" .SharpeRatio}}
:MAX_DD_PCT:  {{printf "%.2f" (mul100 .MaxDrawdown)}}
:TRADES:      {{.Trades}}
:WIN_RATE:    {{printf "%.2f" (mul100 .WinRate)}}
:COMMISSION:  {{printf "%.2f" .TotalCommission}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
{{- if .Config}}
{{printf "%s" .Config}}
{{- else}}
(defaults)
{{- end}}

** Performance Summary
- Total Return:     *{{printf "%.2f" (mul100 .TotalReturn)}}%*
- CAGR:             *{{printf "%.2f" (mul100 .CAGR)}}%*
- Volatility:       *{{printf "%.2f" (mul100 .Volatility)}}%*
- Sharpe Ratio:     *{{printf "%.2f" .SharpeRatio}}*
- Max Drawdown:     *{{printf "%.2f" (mul100 .MaxDrawdown)}}%*
- Win Rate:         *{{printf "%.2f" (mul100 .WinRate)}}%*
- Total Trades:     {{.Trades}}
- Commission Paid:  {{printf "%.2f" .TotalCommission}}
`
