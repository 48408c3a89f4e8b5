package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"expense-manager/internal/models"
	"expense-manager/internal/report"
)

const displayTime = "2006-01-02 15:04:05"

func printExpenses(w io.Writer, expenses []models.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses recorded yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\n", e.Time.Format(displayTime), e.Amount, e.Category, e.Description)
	}
	tw.Flush()
}

func printSeries(w io.Writer, s report.Series, withShares bool) {
	fmt.Fprintf(w, "%s:\n", s.Name)
	if s.Empty() {
		fmt.Fprintln(w, "  (nothing to show)")
		return
	}

	shares := s.Shares()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for i, p := range s.Points {
		if withShares {
			fmt.Fprintf(tw, "  %s\t%.2f\t%.1f%%\t\n", p.Display, p.Value, shares[i])
		} else {
			fmt.Fprintf(tw, "  %s\t%.2f\t\n", p.Display, p.Value)
		}
	}
	tw.Flush()
}

func printSummary(w io.Writer, sum report.Summary) {
	if sum.Count == 0 {
		fmt.Fprintln(w, "No expenses recorded yet, nothing to report.")
		return
	}

	fmt.Fprintf(w, "%d expenses, total %.2f\n\n", sum.Count, sum.Total)
	printSeries(w, sum.Daily, false)
	fmt.Fprintln(w)
	printSeries(w, sum.Category, true)
	fmt.Fprintln(w)
	printSeries(w, sum.Monthly, false)
	fmt.Fprintln(w)
	printSeries(w, sum.Top, false)
}
