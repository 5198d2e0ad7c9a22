package deck

import (
	"bufio"
	"io"
	"strconv"
	"time"
)

// RowWriter consumes a deck as it is generated.
type RowWriter interface {
	WriteHeader(header, rows int64) error
	WriteRow(row Row) error
	Flush() error
}

// TextWriter renders the plain text deck format: the header, the row count,
// then one "q r" line per row.
type TextWriter struct {
	w   *bufio.Writer
	buf []byte
}

func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w), buf: make([]byte, 0, 48)}
}

func (t *TextWriter) WriteHeader(header, rows int64) error {
	t.buf = strconv.AppendInt(t.buf[:0], header, 10)
	t.buf = append(t.buf, '\n')
	t.buf = strconv.AppendInt(t.buf, rows, 10)
	t.buf = append(t.buf, '\n')
	_, err := t.w.Write(t.buf)
	return err
}

func (t *TextWriter) WriteRow(row Row) error {
	t.buf = strconv.AppendInt(t.buf[:0], row.Query, 10)
	t.buf = append(t.buf, ' ')
	t.buf = strconv.AppendInt(t.buf, row.Result, 10)
	t.buf = append(t.buf, '\n')
	_, err := t.w.Write(t.buf)
	return err
}

func (t *TextWriter) Flush() error {
	return t.w.Flush()
}

// maxPrealloc caps the row slice reserved up front from an untrusted count.
const maxPrealloc = 1 << 20

// Collector keeps every row in memory.
type Collector struct {
	deck Deck
}

// NewCollector returns a Collector whose deck carries the given specs.
func NewCollector(querySpec, ratioSpec string) *Collector {
	return &Collector{deck: Deck{QuerySpec: querySpec, RatioSpec: ratioSpec}}
}

func (c *Collector) WriteHeader(header, rows int64) error {
	c.deck.Header = header
	c.deck.CreatedAt = time.Now().UTC()
	c.deck.Rows = make([]Row, 0, min(max(rows, 0), maxPrealloc))
	return nil
}

func (c *Collector) WriteRow(row Row) error {
	c.deck.Rows = append(c.deck.Rows, row)
	return nil
}

func (c *Collector) Flush() error { return nil }

// Deck returns the collected deck.
func (c *Collector) Deck() *Deck {
	return &c.deck
}

type multiWriter []RowWriter

// MultiWriter duplicates every call to each writer, stopping at the first error.
func MultiWriter(writers ...RowWriter) RowWriter {
	return multiWriter(writers)
}

func (m multiWriter) WriteHeader(header, rows int64) error {
	for _, w := range m {
		if err := w.WriteHeader(header, rows); err != nil {
			return err
		}
	}
	return nil
}

func (m multiWriter) WriteRow(row Row) error {
	for _, w := range m {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (m multiWriter) Flush() error {
	for _, w := range m {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
