// =============================================================================
// Sheet Cleaner - Cleaning Pipeline
// =============================================================================
//
// Run drives the four cleaning stages over one table, in this order:
//
//   1. Header resolution : map the four required headers to columns
//   2. Suffix filter     : drop rows whose cost center ends in a listed suffix
//   3. Sort              : equipment asc, valid-from desc, valid-until desc
//   4. Deduplication     : keep the first row per equipment value
//
// The table is mutated in place. Cancellation is only observed between
// stages: a stage that has started always runs to the end of its delete
// sweep. There is no rollback; when a stage fails, the stages before it keep
// their changes.
//
// =============================================================================

package cleaner

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/sheet-cleaner/internal/table"
)

// Options configures a single Run.
type Options struct {
	Headers  HeaderNames
	Suffixes SuffixSet

	// Observer receives progress checkpoints. May be nil.
	Observer Observer
}

// Result carries the counts of a run.
type Result struct {
	Mapping           ColumnMapping
	RemovedBySuffix   int
	RowsSorted        int
	RemovedDuplicates int
}

// Run executes the pipeline. On error the returned Result still holds the
// counts of every stage that completed.
//
// Errors:
//   - *StageError wrapping *MissingHeaderError when a header is absent; the
//     table is untouched.
//   - *StageError wrapping the table error when a later stage fails.
//   - *CancelledError when ctx is done at a stage boundary.
func Run(ctx context.Context, t table.Table, opts Options) (Result, error) {
	var res Result
	obs := opts.Observer

	obs.emit(Event{Kind: RunStarted, Message: "starting sheet cleaning"})

	stages := []struct {
		stage Stage
		start string
		run   func() (string, error)
	}{
		{StageHeaders, "mapping headers", func() (string, error) {
			m, err := ResolveHeaders(t, opts.Headers)
			if err != nil {
				return "", err
			}
			res.Mapping = m
			return "headers mapped", nil
		}},
		{StageSuffixFilter, "filtering rows by suffix", func() (string, error) {
			n, err := FilterBySuffix(t, res.Mapping, opts.Suffixes)
			res.RemovedBySuffix = n
			return fmt.Sprintf("removed %d rows by suffix filter", n), err
		}},
		{StageSort, "sorting rows", func() (string, error) {
			n, err := SortRows(t, res.Mapping)
			res.RowsSorted = n
			return fmt.Sprintf("sorted %d rows", n), err
		}},
		{StageDeduplicate, "removing duplicates", func() (string, error) {
			n, err := RemoveDuplicates(t, res.Mapping)
			res.RemovedDuplicates = n
			return fmt.Sprintf("removed %d duplicate rows", n), err
		}},
	}

	completed := StageNone
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return res, &CancelledError{Completed: completed, Err: err}
		}

		obs.emit(Event{Kind: StageStarted, Stage: s.stage, Percent: stagePercent[completed], Message: s.start})
		msg, err := s.run()
		if err != nil {
			return res, &StageError{Stage: s.stage, Err: err}
		}
		completed = s.stage
		obs.emit(Event{Kind: StageCompleted, Stage: s.stage, Percent: stagePercent[s.stage], Message: msg})
	}

	obs.emit(Event{Kind: RunFinished, Stage: completed, Percent: 100, Message: "sheet cleaning finished"})
	return res, nil
}
