package deck

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Read parses a text deck. Tokens may be separated by any whitespace, the
// same way the downstream solvers consume decks. Every row must hold
// positive sizes.
func Read(r io.Reader) (*Deck, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("%w: missing %s", ErrMalformed, what)
		}
		v, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %q is not an integer", ErrMalformed, what, sc.Text())
		}
		return v, nil
	}

	header, err := next("header")
	if err != nil {
		return nil, err
	}
	n, err := next("row count")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", ErrMalformed, n)
	}

	d := &Deck{Header: header, Rows: make([]Row, 0, min(n, maxPrealloc))}
	for i := int64(0); i < n; i++ {
		q, err := next(fmt.Sprintf("query size of row %d", i))
		if err != nil {
			return nil, err
		}
		res, err := next(fmt.Sprintf("result size of row %d", i))
		if err != nil {
			return nil, err
		}
		d.Rows = append(d.Rows, Row{Query: q, Result: res})
	}

	if sc.Scan() {
		return nil, fmt.Errorf("%w: trailing data %q after %d rows", ErrMalformed, sc.Text(), n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
