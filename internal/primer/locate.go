// Package primer finds a PCR primer pair around a position in a reference
// sequence using primer3.
package primer

import (
	"github.com/jjtimmons/autoprimer/internal/fasta"
)

const (
	// Flank is the max number of bp on either side of the target in the template
	Flank = 500

	// Exclusion is the number of bp on either side of the target that primers can't overlap
	Exclusion = 100

	// MaxNamesListed caps the sequence names listed in a NotFoundError
	MaxNamesListed = 20
)

// Window is the slice of a reference sequence sent to primer3 as the template.
type Window struct {
	// Seq is the template sequence, ref[Start:End]
	Seq string

	// Start is the 0-based start of the window in the reference (inclusive)
	Start int

	// End is the 0-based end of the window in the reference (exclusive)
	End int

	// Offset is the target's 0-based index in Seq
	Offset int
}

// Region is a stretch of the window, in primer3's "start,length" form.
type Region struct {
	Start int
	Len   int
}

// Locate finds the flanking window around a position in the named sequence.
//
// Positions >= 1 are 1-based and shifted down by one. Anything smaller is
// used as a 0-based index unchanged, so 0 and 1 are the same base and
// negative positions fail the bounds check.
func Locate(ref *fasta.Reference, name string, position int) (Window, error) {
	seq, ok := ref.Get(name)
	if !ok {
		available := ref.Names()
		if len(available) > MaxNamesListed {
			available = available[:MaxNamesListed]
		}
		return Window{}, &NotFoundError{Name: name, Available: available}
	}

	pos0 := position
	if position >= 1 {
		pos0 = position - 1
	}
	if pos0 < 0 || pos0 >= len(seq) {
		return Window{}, &OutOfBoundsError{Name: name, Position: position, Length: len(seq)}
	}

	start := max(0, pos0-Flank)
	end := min(len(seq), pos0+Flank)

	return Window{
		Seq:    seq[start:end],
		Start:  start,
		End:    end,
		Offset: pos0 - start,
	}, nil
}

// OKRegions returns the regions of the window that primers may fall in:
// everything but Exclusion bp either side of the target.
func OKRegions(w Window) (left, right Region) {
	left = Region{Start: 0, Len: max(0, w.Offset-Exclusion)}

	rightStart := min(len(w.Seq), w.Offset+Exclusion)
	right = Region{Start: rightStart, Len: max(0, len(w.Seq)-rightStart)}

	return left, right
}

// Visualize brackets the region primers are kept out of, eg: ACG{TTAGC}ATG
func Visualize(w Window) string {
	left, right := OKRegions(w)
	leftEnd := left.Len

	return w.Seq[:leftEnd] + "{" + w.Seq[leftEnd:right.Start] + "}" + w.Seq[right.Start:]
}
