package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/filter"
	"svw.info/cardle/internal/progress"
	"svw.info/cardle/internal/usecase"
)

func printRows(cmd *cobra.Command, rows []usecase.Row, german bool) {
	w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Card.Code, r.Card.DisplayName(german), r.Feedback.Line())
	}
	_ = w.Flush()
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the guesses and state of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			b, err := a.uc.Board(a.mode, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s %s: %s, %d guesses\n", b.Mode, b.Day, b.State, len(b.Rows))
			printRows(cmd, b.Rows, a.german())
			if b.Target != nil {
				fmt.Fprintf(out(cmd), "answer: %s (%s)\n", b.Target.DisplayName(a.german()), b.Target.Code)
			}
			return nil
		},
	}
}

func newGuessCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "guess <code>",
		Short: "Guess a card by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			res, err := a.uc.Guess(cmd.Context(), a.mode, day, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if res.Row != nil {
				printRows(cmd, []usecase.Row{*res.Row}, a.german())
			}
			switch res.Outcome {
			case progress.OutcomeSolved:
				fmt.Fprintf(out(cmd), "solved in %d guesses\n", res.Guesses)
			case progress.OutcomeAlreadyGuessed:
				fmt.Fprintln(out(cmd), "already guessed")
			case progress.OutcomeClosed:
				fmt.Fprintln(out(cmd), "day already solved")
			default:
				fmt.Fprintf(out(cmd), "%d guesses so far\n", res.Guesses)
			}
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "List guessable cards whose name contains text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			cards, err := a.uc.Search(a.mode, day, text)
			if err != nil {
				return err
			}
			for _, c := range cards {
				fmt.Fprintf(out(cmd), "%s\t%s\n", c.Code, c.DisplayName(a.german()))
			}
			return nil
		},
	}
}

// parseCriterion reads "field=value", "field~a,b" (any), "field==a,b" (all)
// and "name^X" (first letter).
func parseCriterion(s string) (filter.Criterion, error) {
	for _, op := range []string{"==", "~", "^", "="} {
		k, v, ok := strings.Cut(s, op)
		if !ok {
			continue
		}
		f, err := domain.ParseField(strings.TrimSpace(k))
		if err != nil {
			return filter.Criterion{}, err
		}
		var c filter.Criterion
		switch op {
		case "==":
			c = filter.All(f, splitList(v)...)
		case "~":
			c = filter.Any(f, splitList(v)...)
		case "^":
			c = filter.FirstLetter(strings.TrimSpace(v))
		default:
			c = filter.Equal(f, strings.TrimSpace(v))
		}
		return c, c.Validate()
	}
	return filter.Criterion{}, fmt.Errorf("cannot parse filter %q", s)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newFiltersCmd(a *app) *cobra.Command {
	var toggles []string
	var clear bool
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Show, toggle or clear search filters",
		Long: `Filters narrow the search list. They unlock as guesses reveal facts.

  --toggle cost=3          scalar field equals value
  --toggle name^S          name starts with letter
  --toggle traits~Spy      set contains every listed element
  --toggle traits==A,B     set is exactly the listed elements

Filters live for the duration of one process; use them together with search
in the HTTP API for a persistent session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			if clear {
				a.uc.ClearFilters(a.mode, day)
			}
			for _, t := range toggles {
				c, err := parseCriterion(t)
				if err != nil {
					return err
				}
				if _, err := a.uc.ToggleFilter(a.mode, day, c); err != nil {
					return err
				}
			}
			for _, c := range a.uc.Filters(a.mode, day) {
				fmt.Fprintf(out(cmd), "active\t%s\n", c)
			}
			avail, err := a.uc.Available(a.mode, day)
			if err != nil {
				return err
			}
			for _, c := range avail {
				fmt.Fprintf(out(cmd), "unlocked\t%s\n", c)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&toggles, "toggle", nil, "filter to toggle (repeatable)")
	cmd.Flags().BoolVar(&clear, "clear", false, "clear active filters first")
	return cmd
}

func newShareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Print the result summary and a viewer link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			text, err := a.uc.ShareText(a.mode, day)
			if err != nil {
				return err
			}
			link, err := a.uc.ShareLink(a.mode, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s\n\n%s\n", text, link)
			return nil
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <link>",
		Short: "Replay a shared game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.uc.View(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s: %s in %d guesses\n", r.Day, r.Target.DisplayName(r.German), len(r.Rows))
			printRows(cmd, r.Rows, r.German)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the guesses of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			if err := a.uc.Reset(cmd.Context(), a.mode, day); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s %s reset\n", a.mode, day)
			return nil
		},
	}
}

func newFindDayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find-day <code>",
		Short: "Find the most recent day whose answer is the given card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := a.day()
			if err != nil {
				return err
			}
			d, err := a.uc.FindDay(a.mode, args[0], from)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), d)
			return nil
		},
	}
}

func newCardsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List the catalog ordered by code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cards, err := a.uc.Cards()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			for _, c := range cards {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Code, c.DisplayName(a.german()), c.Type.Name(), c.Faction.Name())
			}
			return w.Flush()
		},
	}
}

func newDaysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "days",
		Short: "List played days and their state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, err := a.uc.Days(a.mode)
			if err != nil {
				return err
			}
			for _, d := range days {
				fmt.Fprintf(out(cmd), "%s\t%s\t%d\n", d.Day, d.State, d.Guesses)
			}
			return nil
		},
	}
}

func newPrefsCmd(a *app) *cobra.Command {
	var german, dark string
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change language and theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if german != "" {
				if err := a.prefs.SetGerman(german == "true" || german == "on"); err != nil {
					return err
				}
			}
			if dark != "" {
				if err := a.prefs.SetDark(dark == "true" || dark == "on"); err != nil {
					return err
				}
			}
			v := a.prefs.Values()
			fmt.Fprintf(out(cmd), "german=%t dark=%t\n", v.German, v.Dark)
			return nil
		},
	}
	cmd.Flags().StringVar(&german, "german", "", "on|off")
	cmd.Flags().StringVar(&dark, "dark", "", "on|off")
	return cmd
}

func newModesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List modes with stored progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modes, err := a.uc.Stored(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range modes {
				fmt.Fprintf(out(cmd), "%s\t%s\t%d days\t%d solved\n", m.Mode, m.Key, m.Days, m.Solved)
			}
			return nil
		},
	}
}
