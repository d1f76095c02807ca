// Package fasta reads reference sequences from (optionally gzipped) FASTA files.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxLine is the longest single FASTA line accepted (single-line chromosomes are common)
const maxLine = 512 * 1024 * 1024

// Reference is the set of sequence names from a FASTA file, in file order,
// and the sequences that were kept while reading it. Names are the first
// whitespace delimited word of a header, sequences are upper-cased.
type Reference struct {
	names []string
	seen  map[string]bool
	seqs  map[string]string
}

// Load reads the FASTA file at path into a Reference. Only the sequences
// named in keep are held in memory; every name is still listed. With no
// names given, every sequence is kept.
func Load(path string, keep ...string) (*Reference, error) {
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create path to reference file: %w", err)
		}
		path = abs
	}

	rc, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file %s: %w", path, err)
	}
	defer rc.Close()

	ref, err := Read(rc, keep...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ref, nil
}

// Read parses a multi-FASTA stream into a Reference, keeping the sequences
// named in keep (or all of them if keep is empty).
func Read(r io.Reader, keep ...string) (*Reference, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	wanted := make(map[string]bool, len(keep))
	for _, name := range keep {
		wanted[name] = true
	}

	ref := &Reference{
		seen: make(map[string]bool),
		seqs: make(map[string]string),
	}

	var (
		id      string
		seq     []byte
		inSeq   bool
		keeping bool
		lineNo  int
	)

	flush := func() {
		if keeping {
			ref.seqs[id] = string(seq)
		}
		seq = nil
	}

	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		if line[0] == '>' {
			flush()
			fields := strings.Fields(string(line[1:]))
			if len(fields) == 0 {
				return nil, fmt.Errorf("empty header on line %d", lineNo)
			}
			id = fields[0]
			if ref.seen[id] {
				return nil, fmt.Errorf("duplicate sequence name %q", id)
			}
			ref.seen[id] = true
			ref.names = append(ref.names, id)
			inSeq = true
			keeping = len(wanted) == 0 || wanted[id]
			continue
		}

		if !inSeq {
			return nil, fmt.Errorf("sequence before first header on line %d", lineNo)
		}
		if !keeping {
			continue
		}
		for _, b := range line {
			switch {
			case b == ' ' || b == '\t':
			case 'a' <= b && b <= 'z':
				seq = append(seq, b-('a'-'A'))
			default:
				seq = append(seq, b)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	// opened and parsed file but found nothing
	if len(ref.names) == 0 {
		return nil, fmt.Errorf("no sequences found")
	}

	return ref, nil
}

// Get returns the sequence with the given name, if it was kept.
func (r *Reference) Get(name string) (string, bool) {
	seq, ok := r.seqs[name]
	return seq, ok
}

// Has reports whether a sequence with the given name is in the file.
func (r *Reference) Has(name string) bool {
	return r.seen[name]
}

// Names returns every sequence name in file order.
func (r *Reference) Names() []string {
	return append([]string(nil), r.names...)
}

// Len is the number of sequences in the file.
func (r *Reference) Len() int {
	return len(r.names)
}

// Kept is the number of sequences held in memory.
func (r *Reference) Kept() int {
	return len(r.seqs)
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// open returns a reader over the file, decompressing it if it starts with
// the gzip magic number or ends with .gz
func open(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var sig [2]byte
	n, _ := io.ReadFull(fh, sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		fh.Close()
		return nil, err
	}

	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}

	return fh, nil
}
