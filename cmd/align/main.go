// Command align scores a set of answers against the subjects of a YAML
// dataset without touching any database.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"govtrack/internal/alignment"
	"govtrack/internal/dataset"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var dataFile string

	root := &cobra.Command{
		Use:           "align",
		Short:         "Offline political alignment scoring",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVarP(&dataFile, "data", "d", "", "YAML dataset (defaults to the built-in sample)")

	load := func() (*dataset.Dataset, error) {
		if dataFile == "" {
			return dataset.Sample(), nil
		}
		return dataset.Load(dataFile)
	}

	root.AddCommand(newScoreCmd(load), newValidateCmd(load))
	return root
}

func newScoreCmd(load func() (*dataset.Dataset, error)) *cobra.Command {
	var (
		answers          string
		asJSON           bool
		skipInsufficient bool
		categories       bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rank the dataset's subjects against a respondent's answers",
		Example: `  align score --answers 4,4,3,3,2,4,3,4,3,4
  align score -d quiz.yaml --answers 5,,1,3 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := load()
			if err != nil {
				return err
			}
			values, err := parseValues(answers)
			if err != nil {
				return err
			}
			given, err := ds.AnswersFromValues(values)
			if err != nil {
				return err
			}

			var opts []alignment.Option
			if skipInsufficient {
				opts = append(opts, alignment.WithSkipInsufficient())
			}
			if categories {
				opts = append(opts, alignment.WithCategories())
			}
			results, err := alignment.NewScorer(opts...).Score(given, ds.Questions(), ds.AlignmentSubjects())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return printResults(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVarP(&answers, "answers", "a", "", "comma separated answers in question order; empty or 0 skips")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&skipInsufficient, "skip-insufficient", false, "drop subjects without comparable positions")
	cmd.Flags().BoolVar(&categories, "categories", false, "include per-category percentages")
	return cmd
}

func newValidateCmd(load func() (*dataset.Dataset, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a dataset's questions and subject positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %q, %d questions, %d subjects\n",
				ds.Quiz.Title, len(ds.Quiz.Questions), len(ds.Subjects))
			return nil
		},
	}
}

func parseValues(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not a number", i+1, p)
		}
		values[i] = v
	}
	return values, nil
}

func printResults(w io.Writer, results []alignment.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSUBJECT\tALIGNMENT\tCOMPARED\tCATEGORIES")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%d%%\t%d\t%s\n", i+1, r.Name, r.Percentage, r.Compared, formatCategories(r.Categories))
	}
	return tw.Flush()
}

func formatCategories(cats map[string]int) string {
	if len(cats) == 0 {
		return "-"
	}
	names := make([]string, 0, len(cats))
	for name := range cats {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d%%", name, cats[name])
	}
	return strings.Join(parts, " ")
}
