package commands

import (
	"fmt"
	"io"
	"strconv"

	"hltvminer/internal/linker"
	"hltvminer/internal/records"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	showCmd.AddCommand(showMatchCmd)
	showCmd.AddCommand(showEventsCmd)
	showCmd.AddCommand(showLinksCmd)
	showCmd.AddCommand(showCountsCmd)
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints mined records.",
}

func newTable(out io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

func storedEventNames(events []records.Event) []string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	return names
}

var showMatchCmd = &cobra.Command{
	Use:   "match <id>",
	Short: "Prints a match, its maps and the player stats of every map.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid match id: %w", err)
		}

		st, err := openStore(tel)
		if err != nil {
			return err
		}
		defer st.Close()

		match, ok := st.GetMatchByID(ctx, id)
		if !ok {
			return fmt.Errorf("match %d is not stored", id)
		}

		event := match.Event
		if _, ok := st.GetEventByName(ctx, match.Event); !ok {
			link, ok := linker.ClosestEvent(match.Event, storedEventNames(st.GetAllEvents(ctx)))
			if ok {
				event = fmt.Sprintf("%s (stored as %q, %.2f)", match.Event, link.Stored, link.Correlation)
			} else {
				event = fmt.Sprintf("%s (not stored)", match.Event)
			}
		}

		fmt.Fprintf(out, "match %d, %s, %s\n", match.ID, match.Time, event)

		for _, m := range st.GetMapsByMatchID(ctx, id) {
			renderMap(out, m)
		}
		return nil
	},
}

func renderMap(out io.Writer, m records.Map) {
	t1, t2 := m.Totals()
	fmt.Fprintf(
		out,
		"\n%s (%d) %s %d:%d %s, %s starts %s and plays %s in the second half\n",
		m.Name, m.ID, m.Team1, t1, t2, m.Team2,
		m.Team1, m.StartSide, m.StartSide.Opposite(),
	)

	t := newTable(out, table.Row{"Team", "Player", "K (hs)", "A (f)", "D", "ADR", "FK diff", "Rating"})
	for slot, p := range m.Players {
		if slot == records.SlotsPerTeam {
			t.AppendSeparator()
		}
		t.AppendRow(table.Row{
			m.Team(slot),
			p.Name,
			fmt.Sprintf("%d (%d)", p.Kills, p.Headshots),
			fmt.Sprintf("%d (%d)", p.Assists, p.FlashAssists),
			p.Deaths,
			fmt.Sprintf("%.1f", p.ADR),
			fmt.Sprintf("%+d", p.FirstKillDiff),
			fmt.Sprintf("%.2f", p.Rating),
		})
	}
	t.Render()
}

var showEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Prints every stored event.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(tel)
		if err != nil {
			return err
		}
		defer st.Close()

		t := newTable(cmd.OutOrStdout(), table.Row{"Event", "Teams", "Prize", "Type"})
		for _, e := range st.GetAllEvents(cmd.Context()) {
			t.AppendRow(table.Row{e.Name, e.Teams, e.Prize, e.Type})
		}
		t.Render()
		return nil
	},
}

var showLinksCmd = &cobra.Command{
	Use:   "links",
	Short: "Prints the stored event each match event name links to.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(tel)
		if err != nil {
			return err
		}
		defer st.Close()

		names := st.MatchEventNames(ctx)
		links := linker.LinkEvents(names, storedEventNames(st.GetAllEvents(ctx)))
		linked := make(map[string]linker.Link, len(links))
		for _, link := range links {
			linked[link.Event] = link
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"Match event", "Stored event", "Correlation"})
		for _, name := range names {
			link, ok := linked[name]
			if !ok {
				t.AppendRow(table.Row{name, "-", "-"})
				continue
			}
			t.AppendRow(table.Row{name, link.Stored, fmt.Sprintf("%.2f", link.Correlation)})
		}
		t.Render()
		return nil
	},
}

var showCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Prints how many records are stored.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(tel)
		if err != nil {
			return err
		}
		defer st.Close()

		t := newTable(cmd.OutOrStdout(), table.Row{"Records", "Count"})
		t.AppendRow(table.Row{"matches", st.CountMatches(ctx)})
		t.AppendRow(table.Row{"maps", st.CountMaps(ctx)})
		t.AppendRow(table.Row{"events", len(st.GetAllEvents(ctx))})
		t.Render()
		return nil
	},
}
