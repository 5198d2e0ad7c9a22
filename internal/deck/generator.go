package deck

import (
	"context"
	"fmt"
)

// Generator draws deck rows from a Config.
type Generator struct {
	cfg Config
}

// New returns a Generator for cfg.
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Next draws one row. The query sample is truncated and clamped to 1 before
// it scales the ratio sample, which is truncated and clamped the same way.
func (g *Generator) Next() Row {
	q := atLeastOne(g.cfg.Query.Sample())
	r := atLeastOne(float64(q) * g.cfg.Ratio.Sample())
	return Row{Query: q, Result: r}
}

// Run writes the header, the row count and Rows rows to w, then flushes it.
func (g *Generator) Run(ctx context.Context, w RowWriter) error {
	if err := w.WriteHeader(g.cfg.Header, g.cfg.Rows); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := int64(0); i < g.cfg.Rows; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.WriteRow(g.Next()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
