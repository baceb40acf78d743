// internal/services/analysis_service.go
// Analisis rapport untuk expert: ringkasan LLM, fallback ekstraktif

package services

import (
	"context"
	"fmt"
	"strings"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/llm"
	"drilling-dashboard/internal/logger"
)

const analysisSystem = `Tu es ingénieur forage senior. Résume en français, en 3 à 5 phrases,
l'état d'un rapport journalier : avancement, anomalies, risques de retard ou de
dépassement de coût, et une recommandation. Reste factuel, n'invente aucun chiffre.`

type Analysis struct {
	ReportID string `json:"reportId"`
	Summary  string `json:"summary"`
	Source   string `json:"source"` // llm | extractive
	Model    string `json:"model,omitempty"`
}

// Analyzer: LLM nil → selalu ekstraktif.
type Analyzer struct {
	LLM llm.Client
}

func (a *Analyzer) Analyze(ctx context.Context, rep backend.Report, ops []backend.OperationLine) Analysis {
	out := Analysis{ReportID: rep.ID.String()}
	if a != nil && a.LLM != nil {
		text, err := a.LLM.Complete(ctx, analysisSystem, analysisPrompt(rep, ops))
		if err == nil && strings.TrimSpace(text) != "" {
			out.Summary = SanitizeText(text)
			out.Source = "llm"
			out.Model = a.LLM.Model()
			return out
		}
		logger.With("analysis.llm").WithField("report_id", out.ReportID).WithError(err).Warn("llm analysis failed, using extractive summary")
	}
	out.Summary = ExtractiveSummary(rep)
	out.Source = "extractive"
	return out
}

func analysisPrompt(rep backend.Report, ops []backend.OperationLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Puits: %s\nPhase: %s\nJour: %d\nDate: %s\nProfondeur: %.0f\nAvancement: %s\nOpération prévue: %s\n",
		firstNonEmpty(rep.PuitName, rep.PuitID.String()), rep.Phase, int(rep.Day),
		rep.Date.Format("2006-01-02"), float64(rep.Depth), rep.DrillingProgress, rep.PlannedOperation)
	if rep.DailyCost != nil {
		fmt.Fprintf(&b, "Coût journalier: %s\n", FormatMoney(float64(rep.DailyCost.Total)))
	}
	if rep.Anomalies != nil {
		fmt.Fprintf(&b, "Anomalies: %s\n", SanitizeText(*rep.Anomalies))
	}
	for _, r := range sanitizeAll(rep.Remarks) {
		fmt.Fprintf(&b, "Remarque: %s\n", r)
	}
	for _, op := range ops {
		fmt.Fprintf(&b, "Opération %s (%s-%s): %s\n", op.Code, op.StartTime, op.EndTime, SanitizeText(op.Description))
	}
	return b.String()
}

// ExtractiveSummary menyusun ringkasan dari field rapport tanpa LLM.
func ExtractiveSummary(rep backend.Report) string {
	parts := []string{fmt.Sprintf("Jour %d, phase %s, profondeur %.0f.", int(rep.Day), rep.Phase, float64(rep.Depth))}
	if op := strings.TrimSpace(rep.PlannedOperation); op != "" {
		parts = append(parts, "Opération prévue : "+SanitizeText(op)+".")
	}
	if rep.DailyCost != nil {
		parts = append(parts, "Coût journalier : "+FormatMoney(float64(rep.DailyCost.Total))+".")
	}
	if rep.Anomalies != nil && strings.TrimSpace(*rep.Anomalies) != "" {
		parts = append(parts, "Anomalies : "+strings.TrimSuffix(SanitizeText(*rep.Anomalies), ".")+".")
	} else {
		parts = append(parts, "Aucune anomalie signalée.")
	}
	remarks := sanitizeAll(rep.Remarks)
	if len(remarks) > 3 {
		remarks = remarks[:3]
	}
	if len(remarks) > 0 {
		parts = append(parts, "Remarques : "+strings.Join(remarks, " ; ")+".")
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
