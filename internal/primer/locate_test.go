package primer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jjtimmons/autoprimer/internal/fasta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRef makes a reference from name/sequence pairs
func newRef(t *testing.T, namesAndSeqs ...string) *fasta.Reference {
	t.Helper()

	var b strings.Builder
	for i := 0; i < len(namesAndSeqs); i += 2 {
		fmt.Fprintf(&b, ">%s\n%s\n", namesAndSeqs[i], namesAndSeqs[i+1])
	}

	ref, err := fasta.Read(strings.NewReader(b.String()))
	require.NoError(t, err)
	return ref
}

func Test_Locate(t *testing.T) {
	chr1 := strings.Repeat("ACGT", 500) // 2000 bp
	ref := newRef(t, "chr1", chr1, "chr2", strings.Repeat("G", 100))

	tests := []struct {
		name     string
		seqName  string
		position int
		want     Window
	}{
		{
			"centered",
			"chr1",
			1000,
			Window{Seq: chr1[500:1500], Start: 500, End: 1500, Offset: 500},
		},
		{
			"clamped at the start",
			"chr1",
			1,
			Window{Seq: chr1[0:500], Start: 0, End: 500, Offset: 0},
		},
		{
			"clamped at the end",
			"chr1",
			2000,
			Window{Seq: chr1[1499:2000], Start: 1499, End: 2000, Offset: 500},
		},
		{
			"position 0 is used as a 0-based index",
			"chr2",
			0,
			Window{Seq: strings.Repeat("G", 100), Start: 0, End: 100, Offset: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Locate(ref, tt.seqName, tt.position)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Locate_windowInvariants(t *testing.T) {
	seq := strings.Repeat("ACGTTGCA", 300) // 2400 bp
	ref := newRef(t, "chr1", seq)

	for pos := 1; pos <= len(seq); pos += 7 {
		w, err := Locate(ref, "chr1", pos)
		require.NoError(t, err)

		assert.True(t, w.Offset >= 0 && w.Offset < len(w.Seq), "offset %d outside window of %d at %d", w.Offset, len(w.Seq), pos)
		assert.LessOrEqual(t, len(w.Seq), 2*Flank)
		assert.True(t, 0 <= w.Start && w.Start <= w.End && w.End <= len(seq))
		assert.Equal(t, seq[w.Start:w.End], w.Seq)
		assert.Equal(t, pos-1, w.Start+w.Offset)
	}
}

func Test_Locate_errors(t *testing.T) {
	ref := newRef(t, "chr1", "ACGTACGT", "chr2", "GGGG")

	t.Run("unknown sequence lists the known ones", func(t *testing.T) {
		_, err := Locate(ref, "chrX", 5)

		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, []string{"chr1", "chr2"}, nf.Available)
		assert.Contains(t, err.Error(), "chr1, chr2")
		assert.Contains(t, err.Error(), "chrX")
	})

	for _, pos := range []int{9, 100, -1, -500} {
		t.Run(fmt.Sprintf("position %d", pos), func(t *testing.T) {
			_, err := Locate(ref, "chr1", pos)

			var oob *OutOfBoundsError
			require.True(t, errors.As(err, &oob))
			assert.Equal(t, pos, oob.Position)
			assert.Equal(t, 8, oob.Length)
		})
	}

	t.Run("last base is in bounds", func(t *testing.T) {
		_, err := Locate(ref, "chr1", 8)
		assert.NoError(t, err)
	})
}

func Test_Locate_namesCapped(t *testing.T) {
	var pairs []string
	for i := 1; i <= 30; i++ {
		pairs = append(pairs, fmt.Sprintf("contig%d", i), "ACGT")
	}
	ref := newRef(t, pairs...)

	_, err := Locate(ref, "chrUn", 1)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Len(t, nf.Available, MaxNamesListed)
	assert.Equal(t, "contig20", nf.Available[MaxNamesListed-1])
	assert.NotContains(t, err.Error(), "contig21")
}

func Test_OKRegions(t *testing.T) {
	tests := []struct {
		name      string
		w         Window
		wantLeft  Region
		wantRight Region
	}{
		{
			"centered 1000bp window",
			Window{Seq: strings.Repeat("A", 1000), Offset: 500},
			Region{0, 400},
			Region{600, 400},
		},
		{
			"target near the start",
			Window{Seq: strings.Repeat("A", 550), Offset: 50},
			Region{0, 0},
			Region{150, 400},
		},
		{
			"target near the end",
			Window{Seq: strings.Repeat("A", 540), Offset: 500},
			Region{0, 400},
			Region{540, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := OKRegions(tt.w)
			assert.Equal(t, tt.wantLeft, left)
			assert.Equal(t, tt.wantRight, right)
		})
	}
}

func Test_Visualize(t *testing.T) {
	seq := strings.Repeat("A", 150) + "C" + strings.Repeat("T", 149)
	got := Visualize(Window{Seq: seq, Offset: 150})

	want := strings.Repeat("A", 50) + "{" + strings.Repeat("A", 100) + "C" + strings.Repeat("T", 99) + "}" + strings.Repeat("T", 50)
	assert.Equal(t, want, got)
}
