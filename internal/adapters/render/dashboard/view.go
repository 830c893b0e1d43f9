package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/x-analytics-cli/internal/application"
	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	defaultBarWidth = 30
	labelWidth      = 18
)

type Metric string

const (
	MetricPosts       Metric = "posts"
	MetricImpressions Metric = "impressions"
)

func ParseMetric(raw string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MetricPosts:
		return MetricPosts, nil
	case MetricImpressions:
		return MetricImpressions, nil
	default:
		return "", fmt.Errorf("unsupported metric %q (want posts or impressions)", raw)
	}
}

type Section string

const (
	SectionFreshness   Section = "freshness"
	SectionStats       Section = "stats"
	SectionTimeline    Section = "timeline"
	SectionTopAgents   Section = "top"
	SectionLeaderboard Section = "leaderboard"
	SectionAgents      Section = "agents"
	SectionTable       Section = "table"
)

var DefaultSections = []Section{
	SectionFreshness,
	SectionStats,
	SectionTimeline,
	SectionTopAgents,
	SectionLeaderboard,
	SectionTable,
}

// View is everything one dashboard frame shows, read from the engine at a
// single filter state.
type View struct {
	Filter      domain.Filter             `json:"filter"`
	TotalAgents int                       `json:"totalAgents"`
	Stats       domain.Stats              `json:"stats"`
	Timeline    []domain.DayTotal         `json:"timeline"`
	TopAgents   []domain.AgentTotal       `json:"topAgents"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	Agents      []domain.Agent            `json:"agents"`
	Table       application.TablePage     `json:"table"`
	Freshness   domain.Freshness          `json:"freshness"`
	LastUpdated time.Time                 `json:"lastUpdated"`
}

type RenderOptions struct {
	Now      time.Time
	Metric   Metric
	Sections []Section
	BarWidth int
	// Header adds the title and filter summary above the sections.
	Header bool
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Metric == "" {
		o.Metric = MetricPosts
	}
	if len(o.Sections) == 0 {
		o.Sections = DefaultSections
	}
	if o.BarWidth <= 0 {
		o.BarWidth = defaultBarWidth
	}
	return o
}

func renderView(view View, opts RenderOptions, s styles) string {
	var blocks []string
	if opts.Header {
		blocks = append(blocks,
			s.title.Render("X Account Analytics"),
			s.header.Render(fmt.Sprintf("range: %s • agents: %s", rangeLabel(view.Filter.Range), selectionLabel(view.Filter, view.TotalAgents))),
		)
	}

	for i, section := range opts.Sections {
		block := renderSection(section, view, opts, s)
		if opts.Header || i > 0 {
			block = s.section.Render(block)
		}
		blocks = append(blocks, block)
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderSection(section Section, view View, opts RenderOptions, s styles) string {
	switch section {
	case SectionFreshness:
		return renderFreshness(view.Freshness, view.LastUpdated, s)
	case SectionStats:
		return renderStats(view.Stats, s)
	case SectionTimeline:
		return renderTimeline(view.Timeline, opts, s)
	case SectionTopAgents:
		return renderTopAgents(view.TopAgents, opts, s)
	case SectionLeaderboard:
		return renderLeaderboard(view.Leaderboard, s)
	case SectionAgents:
		return renderAgents(view.Agents, s)
	case SectionTable:
		return renderTable(view.Table, s)
	default:
		return s.empty.Render(fmt.Sprintf("unknown section %q", section))
	}
}

func rangeLabel(r domain.DateRange) string {
	if r.IsAll() {
		return "all time"
	}
	if r.Days == 1 {
		return "last day"
	}
	return fmt.Sprintf("last %d days", r.Days)
}

func selectionLabel(filter domain.Filter, total int) string {
	selected := len(filter.Agents)
	if selected == 0 || selected == total {
		return "All Agents"
	}
	return fmt.Sprintf("%d of %d agents", selected, total)
}

func renderFreshness(freshness domain.Freshness, lastUpdated time.Time, s styles) string {
	switch freshness {
	case domain.FreshnessFresh:
		return s.fresh.Render("● " + freshness.Label())
	case domain.FreshnessStale:
		label := freshness.Label()
		if !lastUpdated.IsZero() {
			label = "Updated " + lastUpdated.UTC().Format("2006-01-02 15:04 UTC")
		}
		return s.stale.Render("● " + label)
	default:
		return s.failed.Render("● " + domain.FreshnessError.Label())
	}
}

func renderStats(stats domain.Stats, s styles) string {
	topName, topMeta := "-", "-"
	if stats.TopAgent != nil {
		topName = stats.TopAgent.DisplayName
		topMeta = fmt.Sprintf("%s posts", domain.CompactNumber(stats.TopAgent.Posts))
	}

	cards := []string{
		renderCard("Total Posts", domain.CompactNumber(stats.TotalPosts), fmt.Sprintf("%d days • %d agents", stats.UniqueDays, stats.UniqueAgents), s),
		renderCard("Total Impressions", domain.CompactNumber(stats.TotalImpressions), fmt.Sprintf("Avg %s/day", domain.CompactNumber(stats.AvgImpressionsPerDay)), s),
		renderCard("Avg Posts/Day", domain.CompactNumber(stats.AvgPostsPerDay), fmt.Sprintf("%s per agent/day", domain.CompactNumber(stats.AvgPostsPerAgent)), s),
		renderCard("Top Agent", topName, topMeta, s),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(label, value, meta string, s styles) string {
	return s.card.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		s.cardLabel.Render(label),
		s.cardValue.Render(value),
		s.cardMeta.Render(meta),
	))
}

func renderTimeline(days []domain.DayTotal, opts RenderOptions, s styles) string {
	title := "Daily posts"
	if opts.Metric == MetricImpressions {
		title = "Daily impressions"
	}

	lines := []string{s.heading.Render(title)}
	if len(days) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No activity in range."))...)
	}

	values := make([]int64, len(days))
	var peak int64
	for i, day := range days {
		values[i] = day.Posts
		if opts.Metric == MetricImpressions {
			values[i] = day.Impressions
		}
		if values[i] > peak {
			peak = values[i]
		}
	}

	for i, day := range days {
		lines = append(lines, barRow(day.Date.Short(), values[i], peak, opts.BarWidth, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTopAgents(agents []domain.AgentTotal, opts RenderOptions, s styles) string {
	lines := []string{s.heading.Render(fmt.Sprintf("Top %d agents by posts", len(agents)))}
	if len(agents) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No agents in range."))...)
	}

	var peak int64
	for _, agent := range agents {
		if agent.Posts > peak {
			peak = agent.Posts
		}
	}

	for _, agent := range agents {
		lines = append(lines, barRow(agent.DisplayName, agent.Posts, peak, opts.BarWidth, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func barRow(label string, value, peak int64, width int, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.rowLabel.Render(padRight(truncate(label, labelWidth), labelWidth)),
		" ",
		renderBar(value, peak, width, s),
		" ",
		s.rowValue.Render(domain.FormatInt(value)),
	)
}

func renderLeaderboard(entries []domain.LeaderboardEntry, s styles) string {
	heading := s.heading.Render("Leaderboard")
	if len(entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, s.empty.Render("No agents in range."))
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("#%d", entry.Rank),
			entry.DisplayName,
			domain.FormatInt(entry.Posts),
			domain.FormatInt(entry.Impressions),
		})
	}

	return lipgloss.JoinVertical(lipgloss.Left, heading, newTable(s, []int{0, 2, 3}, []string{"Rank", "Agent", "Posts", "Impressions"}, rows))
}

func renderAgents(agents []domain.Agent, s styles) string {
	heading := s.heading.Render(fmt.Sprintf("Agents (%d)", len(agents)))
	if len(agents) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, s.empty.Render("No agents loaded."))
	}

	rows := make([][]string, 0, len(agents))
	for _, agent := range agents {
		rows = append(rows, []string{string(agent.ID), agent.DisplayName, agent.XHandle})
	}

	return lipgloss.JoinVertical(lipgloss.Left, heading, newTable(s, nil, []string{"ID", "Agent", "X Handle"}, rows))
}

func renderTable(page application.TablePage, s styles) string {
	heading := s.heading.Render("Records")
	if page.TotalRows == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, s.empty.Render("No records match."))
	}

	rows := make([][]string, 0, len(page.Rows))
	for _, record := range page.Rows {
		rows = append(rows, []string{
			string(record.Date),
			record.DisplayName,
			record.XHandle,
			domain.FormatInt(record.Posts),
			domain.FormatInt(record.Impressions),
		})
	}

	footer := s.header.Render(fmt.Sprintf("Showing %d-%d of %d", page.Start, page.End, page.TotalRows))
	if page.TotalPages > 1 {
		footer = lipgloss.JoinHorizontal(lipgloss.Top, footer, "  ", renderPager(page, s))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		heading,
		newTable(s, []int{3, 4}, []string{"Date", "Agent", "X Handle", "Posts", "Impressions"}, rows),
		footer,
	)
}

func renderPager(page application.TablePage, s styles) string {
	parts := make([]string, 0, len(page.PageWindow))
	for _, n := range page.PageWindow {
		switch {
		case n == application.PageEllipsis:
			parts = append(parts, s.pageIdle.Render("…"))
		case n == page.Page:
			parts = append(parts, s.pageActive.Render(fmt.Sprintf("[%d]", n)))
		default:
			parts = append(parts, s.pageIdle.Render(fmt.Sprintf("%d", n)))
		}
	}
	return strings.Join(parts, " ")
}

func newTable(s styles, numeric []int, headers []string, rows [][]string) string {
	right := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		right[col] = true
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.barBracket).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := s.rowValue.Padding(0, 1)
			if row == table.HeaderRow {
				style = s.tableHead.Padding(0, 1)
			}
			if right[col] {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	return t.Render()
}

func renderBar(value, peak int64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if peak > 0 && value > 0 {
		filled = int(math.Round(float64(width) * float64(value) / float64(peak)))
		if filled < 1 {
			filled = 1
		}
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}

func padRight(value string, width int) string {
	gap := width - lipgloss.Width(value)
	if gap <= 0 {
		return value
	}
	return value + strings.Repeat(" ", gap)
}
