package chart

import (
	"github.com/iwvelando/eugene-roi/internal/report"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/format"
)

// Palette.
const (
	Green  = "#00C853"
	Navy   = "#1C1363"
	Orange = "#FF8C00"
	Violet = "#6E62C5"
)

var impactColors = map[string]string{
	"Annual Efficiency Savings":    Green,
	"Potential Additional Revenue": Navy,
	"Logistics Costs":              Orange,
}

// Impact charts savings, revenue and, where they apply, logistics costs.
func Impact(res roi.Results) BarChart {
	var items []Item
	for _, m := range report.Impact(res) {
		items = append(items, Item{
			Label: m.Name,
			Value: m.Value,
			Color: impactColors[m.Name],
			Text:  format.WholeDollars(m.Value),
		})
	}
	return NewBarChart("Eugene's Impact: Savings and Revenue Opportunities", items, DefaultWidth, DefaultHeight)
}

// BeforeAfter compares annual revenue without and with the time savings.
func BeforeAfter(res roi.Results) BarChart {
	before, after := res.BeforeRevenue(), res.TotalRevenue
	return NewBarChart("Before vs. After Eugene: Revenue Impact", []Item{
		{Label: "Before Eugene", Value: before, Color: Navy, Text: format.WholeDollars(before)},
		{Label: "After Eugene", Value: after, Color: Violet, Text: format.WholeDollars(after)},
	}, DefaultWidth, DefaultHeight)
}

// HoursByRole splits the annual staff hours saved across roles.
func HoursByRole(res roi.Results) PieChart {
	h := res.HoursSavedByRole()
	items := []Item{
		{Label: "Admin", Value: h.Admin, Color: Navy},
		{Label: "Nurse", Value: h.Nurse, Color: Violet},
		{Label: "Doctor", Value: h.Doctor, Color: Green},
		{Label: "Genetic Counselor", Value: h.Genetic, Color: Orange},
	}
	for i := range items {
		items[i].Text = format.Hours(items[i].Value)
	}
	return NewPieChart("Staff Time Saved by Role", items, DefaultSize)
}
