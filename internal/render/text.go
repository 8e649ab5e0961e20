// Package render prints dashboard reports for terminals.
package render

import (
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"go-ecommerce-dashboard/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// Text writes report as titled, tab-aligned tables. Counts and revenue use
// thousands separators and no decimals; delivery shares one decimal.
func Text(w io.Writer, report *model.Report) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	p.Fprintf(tw, "E-Commerce Analytics Dashboard\n")
	p.Fprintf(tw, "Range: %s to %s (%d order lines)\n",
		report.Range.Start.Format(timeLayout), report.Range.End.Format(timeLayout), report.FilteredRecords)

	section(p, tw, "Product Analysis")
	rankedSet(p, tw, "Top and Bottom Products Ranked by Order Volume", report.ProductsByVolume)
	rankedSet(p, tw, "Top and Bottom Products Ranked by Revenue", report.ProductsByRevenue)

	section(p, tw, "Geographic Analysis")
	table(p, tw, "Top Cities Ranked by Revenue", "CITY", report.CitiesTop10)
	table(p, tw, "Top States Ranked by Revenue", "STATE", report.StatesTop10)

	section(p, tw, "Delivery Analysis")
	d := report.Delivery
	p.Fprintf(tw, "STATUS\tORDERS\tSHARE\n")
	p.Fprintf(tw, "%s\t%d\t%.1f%%\n", model.OnTime, d.OnTime, d.OnTimePercent())
	p.Fprintf(tw, "%s\t%d\t%.1f%%\n", model.Late, d.Late, d.LatePercent())

	return tw.Flush()
}

func section(p *message.Printer, w io.Writer, title string) {
	p.Fprintf(w, "\n== %s ==\n", title)
}

func rankedSet(p *message.Printer, w io.Writer, title string, set model.RankedSet) {
	table(p, w, title+" (top)", "PRODUCT", set.Top)
	table(p, w, title+" (bottom)", "PRODUCT", set.Bottom)
}

func table(p *message.Printer, w io.Writer, title, keyHeader string, summaries []model.GroupSummary) {
	p.Fprintf(w, "\n%s\n", title)
	if len(summaries) == 0 {
		p.Fprintf(w, "(no data)\n")
		return
	}
	p.Fprintf(w, "#\t%s\tORDERS\tREVENUE\n", keyHeader)
	for i, s := range summaries {
		key := s.Key
		if key == "" {
			key = "(blank)"
		}
		p.Fprintf(w, "%d\t%s\t%d\t%.0f\n", i+1, key, s.NumOrders, s.Revenue.InexactFloat64())
	}
}
