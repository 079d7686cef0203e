package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sadopc/habitgrid/internal/stats"
)

type statsModel struct {
	sess   *session
	width  int
	height int

	stats stats.Stats
	chart barchart.Model
}

func newStatsModel(sess *session) statsModel {
	return statsModel{
		sess:  sess,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.refresh()
}

// refresh recomputes counts for the displayed month and redraws the chart.
func (s *statsModel) refresh() {
	st := s.sess.state
	s.stats = stats.Compute(st.Records, st.Categories, s.sess.month)
	s.buildChart()
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stateReplacedMsg:
		s.refresh()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.PrevMonth), key.Matches(msg, keys.Left):
			s.sess.month = s.sess.month.Prev()
			s.refresh()
		case key.Matches(msg, keys.NextMonth), key.Matches(msg, keys.Right):
			s.sess.month = s.sess.month.Next()
			s.refresh()
		case key.Matches(msg, keys.Today):
			s.sess.month, _ = s.sess.today()
			s.refresh()
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := max(s.width-8, 20)
	chartHeight := 10
	if s.height > 30 {
		chartHeight = 14
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	dark := s.sess.state.DarkMode
	var bars []barchart.BarData
	for _, c := range s.sess.state.Categories {
		style := lipgloss.NewStyle().Foreground(categoryColor(c.Color, dark))
		bars = append(bars, barchart.BarData{
			Label: truncate(c.Label, 8),
			Values: []barchart.BarValue{{
				Name:  c.Label,
				Value: float64(s.stats.Current[c.ID]),
				Style: style,
			}},
		})
	}
	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		highlightStyle.Render(s.sess.month.String()), "  ",
		mutedStyle.Render(fmt.Sprintf("%d marks this month, %d all time",
			s.stats.CurrentMarks(), s.stats.TotalMarks())),
	)

	var body string
	if s.stats.CurrentMarks() == 0 {
		body = mutedStyle.Render("  No marks this month")
	} else {
		body = s.chart.View()
	}

	nav := mutedStyle.Render("  ←/→ or [/]: month  t: this month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", body, "", s.renderTable(w-6), "", nav,
		),
	)
}

var statsColumns = []string{"Category", "Month", "", "Diff", "Total", "Range", "Avg"}

func (s statsModel) renderTable(w int) string {
	cats := s.sess.state.Categories
	if len(cats) == 0 {
		return mutedStyle.Render("  No categories")
	}

	rows := s.stats.Rows(cats)
	labelW := runewidth.StringWidth(statsColumns[0])
	for _, r := range rows {
		labelW = max(labelW, runewidth.StringWidth(r[0]))
	}
	labelW = min(labelW, max(w/4, 8))
	barW := 10

	line := func(label, month, bar, diff, total, rng, avg string) string {
		return fmt.Sprintf("  %s %5s %s %5s %6s %-17s %s",
			runewidth.FillRight(runewidth.Truncate(label, labelW, "…"), labelW),
			month, bar, diff, total, rng, avg)
	}

	out := []string{
		mutedStyle.Render(line(statsColumns[0], statsColumns[1], strings.Repeat(" ", barW),
			statsColumns[3], statsColumns[4], statsColumns[5], statsColumns[6])),
		mutedStyle.Render("  " + strings.Repeat("─", max(min(w-2, labelW+60), 10))),
	}

	dark := s.sess.state.DarkMode
	for i, c := range cats {
		r := rows[i]
		filled := int(s.stats.Ratio(c.ID)*float64(barW) + 0.5)
		bar := lipgloss.NewStyle().Foreground(categoryColor(c.Color, dark)).Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", barW-filled))

		diff := r[2]
		switch d := s.stats.Diff(c.ID); {
		case d > 0:
			diff = successStyle.Render(fmt.Sprintf("%5s", diff))
		case d < 0:
			diff = errorStyle.Render(fmt.Sprintf("%5s", diff))
		}
		out = append(out, line(r[0], r[1], bar, diff, r[3], r[4], r[5]))
	}
	return strings.Join(out, "\n")
}
