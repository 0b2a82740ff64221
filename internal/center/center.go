package center

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"panelcli/pkg/contracts/domain"
)

// ByWave appends a `<variable>_centered` derived column per declared
// variable: each value minus the arithmetic mean of that variable within the
// value's wave group, ignoring missing entries. A value in wave 3 is centered
// against wave 3's mean only, never the global mean. Missing stays missing,
// and a group with zero non-missing values yields an all-missing centered
// column for that group rather than a division error.
//
// Variables are independent; each is centered on its own goroutine against
// the read-only input, and the derived columns are merged on the calling
// goroutine. Prior columns are never mutated.
func ByWave(ctx context.Context, rows []domain.PanelRow, variables []string, workers int) ([]domain.PanelRow, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type column struct {
		name   string
		values []domain.Value
	}

	var mu sync.Mutex
	columns := make([]column, 0, len(variables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, name := range variables {
		name := name
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			col := column{name: name, values: centerColumn(rows, name)}

			mu.Lock()
			columns = append(columns, col)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.PanelRow, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
		if out[i].Derived == nil {
			out[i].Derived = make(map[string]domain.Value, len(variables))
		}
	}
	for _, col := range columns {
		derived := DerivedName(col.name)
		for i := range out {
			out[i].Derived[derived] = col.values[i]
		}
	}

	slog.Info("Appended wave-centered columns",
		slog.Int("rows", len(out)),
		slog.Int("variables", len(variables)))

	return out, nil
}

// DerivedName returns the centered companion column name for a variable.
func DerivedName(variable string) string {
	return fmt.Sprintf("%s_centered", variable)
}

// centerColumn computes the centered values for one variable across all
// rows, grouping by wave.
func centerColumn(rows []domain.PanelRow, name string) []domain.Value {
	type accumulator struct {
		sum   float64
		count int
	}
	groups := make(map[int]*accumulator)

	for i := range rows {
		v, ok := rows[i].Values[name]
		if !ok || v.IsMissing() {
			continue
		}
		acc := groups[rows[i].Wave]
		if acc == nil {
			acc = &accumulator{}
			groups[rows[i].Wave] = acc
		}
		acc.sum += v.Float
		acc.count++
	}

	out := make([]domain.Value, len(rows))
	for i := range rows {
		v, ok := rows[i].Values[name]
		if !ok || v.IsMissing() {
			out[i] = domain.Missing()
			continue
		}
		acc := groups[rows[i].Wave]
		mean := acc.sum / float64(acc.count)
		out[i] = domain.Some(v.Float - mean)
	}

	return out
}
