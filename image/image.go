// Package image implements the on-disk binary image format the
// assembler's cmd/prismchrono-asm writes and cmd/prismchrono-sim loads
// (§6): a sequence of (address, trytes) records. Trytes are stored as
// their signed balanced-ternary digit value, one per line; the assembler
// never emits a special-state tryte (directives and instruction encoding
// only ever produce Digit trytes), so the text format has no need to
// spell Undefined/Null/NaN.
package image

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/prismchrono/prismchrono/memory"
	"github.com/prismchrono/prismchrono/trit"
)

const magic = "PRISMCHRONO-IMAGE v1"

// Write serialises records to w in the text image format: a magic header
// line, then one "addr count d0 d1 ... d(count-1)" line per record, with
// each di a signed balanced-ternary digit value.
func Write(w io.Writer, records []memory.ImageRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, magic); err != nil {
		return errors.Wrap(err, "writing image header")
	}
	for _, rec := range records {
		fields := make([]string, 0, len(rec.Trytes)+2)
		fields = append(fields, strconv.Itoa(rec.Addr), strconv.Itoa(len(rec.Trytes)))
		for _, tr := range rec.Trytes {
			v, ok := tr.Value()
			if !ok {
				return errors.Errorf("record at %d: cannot serialise a %s tryte", rec.Addr, tr.Kind)
			}
			fields = append(fields, strconv.Itoa(v))
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return errors.Wrapf(err, "writing record at %d", rec.Addr)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing image")
	}
	return nil
}

// Read parses the text image format produced by Write.
func Read(r io.Reader) ([]memory.ImageRecord, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, errors.New("empty image file")
	}
	if scanner.Text() != magic {
		return nil, errors.Errorf("not a PrismChrono image (got header %q)", scanner.Text())
	}

	var records []memory.ImageRecord
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errors.Errorf("line %d: malformed record %q", lineNo, line)
		}
		addr, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: bad address", lineNo)
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: bad tryte count", lineNo)
		}
		if len(fields) != 2+count {
			return nil, errors.Errorf("line %d: expected %d tryte values, got %d", lineNo, count, len(fields)-2)
		}
		trytes := make([]trit.Tryte, count)
		for i := 0; i < count; i++ {
			v, err := strconv.Atoi(fields[2+i])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad tryte value", lineNo)
			}
			tr, ok := trit.DigitTryteFromValue(v)
			if !ok {
				return nil, errors.Errorf("line %d: tryte value %d out of range [-13, 13]", lineNo, v)
			}
			trytes[i] = tr
		}
		records = append(records, memory.ImageRecord{Addr: addr, Trytes: trytes})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading image")
	}
	return records, nil
}
