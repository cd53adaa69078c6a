package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/wire"
)

// diagRow is one line of the diag listing
type diagRow struct {
	offset int
	header wire.Header
	length int
	path   string
	detail string
}

// diagWalker lists every value in a buffer, dictionary entries included
type diagWalker struct {
	data     []byte
	registry *registry.Registry
	config   wire.Config
	maxDepth int
	rows     []diagRow
}

func runDiag(a *app, args []string) error {
	var hexInput bool

	flagSet := newCommandFlags("diag")
	flagSet.BoolVarP(&hexInput, "hex", "x", false, "treat input as hex text")
	if done, err := a.parseCommandFlags(flagSet, args); done || err != nil {
		return err
	}

	data, err := a.readBinary("diag", flagSet.Args(), hexInput)
	if err != nil {
		return err
	}

	walker := &diagWalker{
		data:     data,
		registry: a.codec.GetRegistry(),
		config:   a.codec.Config(),
		maxDepth: a.cfg.MaxDepth,
	}
	walkErr := walker.walkAll()

	// rows gathered before an error are still useful
	if err := walker.print(a.stdout); err != nil {
		return err
	}
	return walkErr
}

func (w *diagWalker) walkAll() error {
	for pos, i := 0, 0; pos < len(w.data); i++ {
		n, err := w.walk(pos, fmt.Sprintf("message[%d]", i), 0)
		if err != nil {
			return err
		}
		pos += n
	}
	return nil
}

// walk records the value at pos and everything nested in it, returning its length
func (w *diagWalker) walk(pos int, path string, depth int) (int, error) {
	if w.maxDepth > 0 && depth > w.maxDepth {
		return 0, fmt.Errorf("%s at offset %d: %w: limit %d", path, pos, wire.ErrMaxDepth, w.maxDepth)
	}

	header, err := wire.PeekHeaderWithRegistry(w.data[pos:], w.registry)
	if err != nil {
		return 0, decodeFailure(err, path, pos)
	}

	idx := len(w.rows)
	w.rows = append(w.rows, diagRow{offset: pos, header: header, path: path})

	if header.Type.Tag != registry.TagDictionary {
		value, n, err := wire.DecodeWithConfig(w.data[pos:], w.registry, w.config)
		if err != nil {
			return 0, decodeFailure(err, path, pos)
		}
		w.rows[idx].length = n
		w.rows[idx].detail = value.String()
		return n, nil
	}

	countAt := pos + wire.HeaderSize
	if len(w.data)-countAt < 4 {
		return 0, fmt.Errorf("%s at offset %d: %w: Dictionary count", path, pos, wire.ErrTruncatedBuffer)
	}
	count := binary.LittleEndian.Uint32(w.data[countAt:])
	next := countAt + 4
	for i := uint32(0); i < count; i++ {
		for _, part := range [...]string{"key", "value"} {
			if next >= len(w.data) {
				return 0, fmt.Errorf("%s at offset %d: %w: entry %d of %d", path, pos, wire.ErrTruncatedBuffer, i, count)
			}
			n, err := w.walk(next, path+"["+strconv.FormatUint(uint64(i), 10)+"]."+part, depth+1)
			if err != nil {
				return 0, err
			}
			next += n
		}
	}
	w.rows[idx].length = next - pos
	w.rows[idx].detail = "entries=" + strconv.FormatUint(uint64(count), 10)
	return next - pos, nil
}

// decodeFailure rebases a DecodeError from a value at pos onto the whole buffer
func decodeFailure(err error, path string, pos int) error {
	var de *wire.DecodeError
	if !errors.As(err, &de) {
		return fmt.Errorf("%s at offset %d: %w", path, pos, err)
	}
	return fmt.Errorf("%s: %w", path, &wire.DecodeError{
		Offset: pos + de.Offset,
		Path:   de.Path,
		Err:    de.Err,
	})
}

func (w *diagWalker) print(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tCODE\tTYPE\tFLAG\tLENGTH\tPATH\tVALUE")
	for _, row := range w.rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%s\t%s\n",
			row.offset, row.header.TypeCode, row.header.Type.Name, row.header.Flag,
			row.length, row.path, row.detail)
	}
	return tw.Flush()
}
