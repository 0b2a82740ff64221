package cleaning

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"panelcli/pkg/contracts/domain"
)

// Normalize applies one variable's sentinel rules to a single value: codes
// strictly above the valid maximum and explicit sentinel codes become
// missing, everything else passes through unchanged. The valid maximum
// itself is a valid answer. Missing input stays missing.
func Normalize(v domain.Value, spec domain.VariableSpec) domain.Value {
	if spec.IsSentinel(v) {
		return domain.Missing()
	}
	return v
}

// ApplyCatalog rewrites sentinel codes to missing across the whole table.
// Variables are independent, so each variable's column is normalized on its
// own goroutine against the read-only input; the normalized columns are then
// merged into a fresh table on the calling goroutine. The call returns only
// when every variable is done, so the stage barrier holds. workers bounds
// the parallelism; zero means GOMAXPROCS.
func ApplyCatalog(ctx context.Context, rows []domain.PanelRow, catalog domain.Catalog, workers int) ([]domain.PanelRow, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type column struct {
		name   string
		values []domain.Value
		// present marks rows that actually carry the variable
		present []bool
	}

	var mu sync.Mutex
	columns := make([]column, 0, len(catalog))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for name, spec := range catalog {
		name, spec := name, spec
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			col := column{
				name:    name,
				values:  make([]domain.Value, len(rows)),
				present: make([]bool, len(rows)),
			}
			recoded := 0
			for i := range rows {
				v, ok := rows[i].Values[name]
				if !ok {
					continue
				}
				normalized := Normalize(v, spec)
				if normalized.IsMissing() && !v.IsMissing() {
					recoded++
				}
				col.values[i] = normalized
				col.present[i] = true
			}

			if recoded > 0 {
				slog.Debug("Recoded sentinel values to missing",
					slog.String("variable", name),
					slog.Int("cells", recoded))
			}

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
	}
	for _, col := range columns {
		for i := range out {
			if col.present[i] {
				out[i].Values[col.name] = col.values[i]
			}
		}
	}

	return out, nil
}
