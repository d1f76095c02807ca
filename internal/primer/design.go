package primer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jjtimmons/autoprimer/config"
	"github.com/jjtimmons/autoprimer/internal/fasta"
	"github.com/olekukonko/tablewriter"
)

// Amplicon is a designed primer pair and the window it was designed in.
type Amplicon struct {
	// ID is the primer3 SEQUENCE_ID, "<name>:<position>"
	ID string

	// Name of the reference sequence
	Name string

	Window Window
	Pair   Pair
}

// Design finds a primer pair around position on the named reference sequence.
func Design(ref *fasta.Reference, name string, position int, conf *config.Config) (*Amplicon, error) {
	log := conf.Logger()

	w, err := Locate(ref, name, position)
	if err != nil {
		return nil, err
	}

	left, right := OKRegions(w)
	log.Debug().
		Str("name", name).
		Int("start", w.Start).
		Int("end", w.End).
		Int("offset", w.Offset).
		Str("ok_regions", fmt.Sprintf("%d,%d,%d,%d", left.Start, left.Len, right.Start, right.Len)).
		Msg("located window")
	log.Debug().Msg(Visualize(w))

	id := SequenceID(name, position)
	result, err := NewPrimer3(conf).Run(BuildInput(id, w))
	if err != nil {
		return nil, err
	}

	pair, err := PickPair(ParseOutput(result.Stdout))
	if err != nil {
		return nil, err
	}

	return &Amplicon{
		ID:     id,
		Name:   name,
		Window: w,
		Pair:   pair,
	}, nil
}

// WriteSummary writes a table of the amplicon's primers, with 1-based reference coordinates.
func WriteSummary(w io.Writer, a *Amplicon) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"id", "primer", "sequence", "start", "end", "tm", "gc%", "penalty"})

	row := func(label string, p Primer) []string {
		start, end := "-", "-"
		if p.Start >= 0 {
			start = strconv.Itoa(a.Window.Start + p.Start + 1)
			end = strconv.Itoa(a.Window.Start + p.Start + p.Len)
		}
		return []string{
			a.ID,
			label,
			p.Seq,
			start,
			end,
			strconv.FormatFloat(p.Tm, 'f', 1, 64),
			strconv.FormatFloat(p.GC, 'f', 1, 64),
			strconv.FormatFloat(p.Penalty, 'f', 3, 64),
		}
	}

	table.Append(row("left", a.Pair.Left))
	table.Append(row("right", a.Pair.Right))
	table.SetFooter([]string{"", "", "", "", "product", strconv.Itoa(a.Pair.ProductSize) + "bp", "pair", strconv.FormatFloat(a.Pair.Penalty, 'f', 3, 64)})
	table.Render()
}
