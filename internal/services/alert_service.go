// internal/services/alert_service.go
// Turunkan alert décideur dari baris rekonsiliasi & anomali coût

package services

import (
	"fmt"
	"time"

	"drilling-dashboard/internal/util"
)

// DeriveAlerts menghasilkan notifikasi untuk phase DANGER / dépassement dan
// coût journalier anormal. ID deterministik: alert yang sama → id yang sama.
func DeriveAlerts(wellID, wellName string, phases []Row, anomalies []Anomaly, now time.Time) []Notification {
	if wellName == "" {
		wellName = wellID
	}
	var out []Notification
	add := func(kind, ref string, t NotificationType, title, desc string) {
		out = append(out, Notification{
			ID:          util.StableID(fmt.Sprintf("%s|%s|%s", wellID, kind, ref)),
			Type:        t,
			Category:    notifCategory[t],
			Title:       title,
			Description: desc,
			Timestamp:   now,
			WellID:      wellID,
		})
	}

	for _, r := range phases {
		if r.Forecast == nil {
			continue
		}
		f := r.Forecast
		switch {
		case r.DelayStatus == StatusDanger:
			add("delay-danger", r.PhaseKey, NotifCritical, "Retard critique",
				fmt.Sprintf("La phase %s du puits %s accuse un retard : %s réalisés pour %s prévus.",
					r.Phase, wellName, r.ActualDelay, r.PlannedDelay))
		case r.OverDelay || r.DelayStatus == StatusAttention:
			add("delay-over", r.PhaseKey, NotifWarning, "Retard de phase",
				fmt.Sprintf("La phase %s du puits %s dépasse le délai prévu (%s / %s).",
					r.Phase, wellName, r.ActualDelay, r.PlannedDelay))
		}
		switch {
		case r.CostStatus == StatusDanger:
			add("cost-danger", r.PhaseKey, NotifCritical, "Dépassement de budget critique",
				fmt.Sprintf("Le coût de la phase %s du puits %s dépasse le budget prévu de %+.0f%%.",
					r.Phase, wellName, percent(f.ActualCost-f.PlannedCost, f.PlannedCost)))
		case r.OverBudget || r.CostStatus == StatusAttention:
			add("cost-over", r.PhaseKey, NotifWarning, "Dépassement de budget",
				fmt.Sprintf("Le coût actuel du puits %s dépasse le budget prévu de %+.0f%% (phase %s).",
					wellName, percent(f.ActualCost-f.PlannedCost, f.PlannedCost), r.Phase))
		}
	}

	for _, a := range anomalies {
		add("cost-anomaly", a.ReportID, NotifWarning, "Coût journalier anormal",
			fmt.Sprintf("Le coût journalier du puits %s au jour %d (%s) s'écarte de la moyenne (z = %.1f).",
				wellName, a.Day, FormatMoney(a.Value), a.ZScore))
	}
	return out
}
