package primer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jjtimmons/autoprimer/config"
	"github.com/rs/zerolog"
)

// settings are the fixed primer3 design parameters, in the order they're written.
// see the primer3 manual: https://primer3.org/manual.html
var settings = [][2]string{
	{"PRIMER_TASK", "generic"},
	{"PRIMER_NUM_RETURN", "1"},
	{"PRIMER_OPT_SIZE", "20"},
	{"PRIMER_MIN_SIZE", "18"},
	{"PRIMER_MAX_SIZE", "25"},
	{"PRIMER_OPT_TM", "60.0"},
	{"PRIMER_MIN_TM", "57.0"},
	{"PRIMER_MAX_TM", "63.0"},
	{"PRIMER_MIN_GC", "20.0"},
	{"PRIMER_MAX_GC", "80.0"},
	{"PRIMER_PRODUCT_SIZE_RANGE", "600-800"},
}

// Output is primer3's result record, key to value.
type Output map[string]string

// Primer is a single oligo from primer3's output.
type Primer struct {
	// Seq is the primer sequence, 5' to 3'
	Seq string

	// Start is the 0-based index of the primer's leftmost base in the window
	Start int

	// Len is the primer's length
	Len int

	// Tm is the primer's melting temperature
	Tm float64

	// GC is the primer's GC percentage
	GC float64

	// Penalty is primer3's penalty score for the primer
	Penalty float64
}

// Pair is the first primer pair primer3 returned.
type Pair struct {
	Left  Primer
	Right Primer

	// Penalty is primer3's penalty score for the pair
	Penalty float64

	// ProductSize is the length of the PCR product in bp
	ProductSize int
}

// Result is what a primer3 run wrote and how it exited.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// SequenceID is the SEQUENCE_ID of a design, the name and position as given by the caller.
func SequenceID(name string, position int) string {
	return fmt.Sprintf("%s:%d", name, position)
}

// BuildInput makes a primer3 input record for the window. Primers are limited to
// the window's OK regions and the record ends with the "=" line primer3 requires.
func BuildInput(id string, w Window) []byte {
	left, right := OKRegions(w)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "SEQUENCE_ID=%s\n", id)
	fmt.Fprintf(&buf, "SEQUENCE_TEMPLATE=%s\n", w.Seq)
	fmt.Fprintf(&buf, "SEQUENCE_PRIMER_PAIR_OK_REGION_LIST=%d,%d,%d,%d\n", left.Start, left.Len, right.Start, right.Len)
	for _, kv := range settings {
		fmt.Fprintf(&buf, "%s=%s\n", kv[0], kv[1])
	}
	buf.WriteString("=\n") // required at record's end

	return buf.Bytes()
}

// Primer3 runs the primer3_core executable.
type Primer3 struct {
	// path to primer3 executable
	path string

	// dir to make input files in
	tempDir string

	// whether to leave the input file behind
	keepInput bool

	log *zerolog.Logger
}

// NewPrimer3 makes a Primer3 runner from the run's settings.
func NewPrimer3(conf *config.Config) *Primer3 {
	return &Primer3{
		path:      conf.Primer3Path,
		tempDir:   conf.TempDir,
		keepInput: conf.KeepInput,
		log:       conf.Logger(),
	}
}

// Run writes the input to a temporary file, feeds it to primer3 on stdin and
// waits on it to finish. A non-zero exit is returned as an *ExternalToolError
// along with the Result.
func (p *Primer3) Run(input []byte) (*Result, error) {
	in, err := os.CreateTemp(p.tempDir, "primer3-in-*.p3")
	if err != nil {
		return nil, fmt.Errorf("failed to create primer3 input file: %w", err)
	}
	inPath := in.Name()

	if p.keepInput {
		p.log.Info().Str("path", inPath).Msg("keeping primer3 input file")
	} else {
		defer os.Remove(inPath)
	}

	_, err = in.Write(input)
	if cerr := in.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write primer3 input file %s: %w", inPath, err)
	}

	stdin, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open primer3 input file %s: %w", inPath, err)
	}
	defer stdin.Close()

	var stdout, stderr bytes.Buffer
	p3Cmd := exec.Command(p.path)
	p3Cmd.Stdin = stdin
	p3Cmd.Stdout = &stdout
	p3Cmd.Stderr = &stderr

	p.log.Debug().Str("cmd", p3Cmd.String()).Str("input", inPath).Msg("running primer3")

	// execute primer3 and wait on it to finish
	err = p3Cmd.Run()
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}

		return result, &ExternalToolError{
			Path:     p.path,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}

	return result, nil
}

// ParseOutput reads primer3's KEY=value output. Lines end at \n, \r\n, a bare \r
// or any other line boundary. Lines without an "=", and the
// lone "=" record terminator, are skipped. Values may contain "=", only the
// first splits. Later duplicates overwrite earlier ones.
func ParseOutput(stdout string) Output {
	results := make(Output)
	for _, line := range strings.FieldsFunc(stdout, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" || line == "=" {
			continue
		}

		key, val, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		results[key] = val
	}

	return results
}

// isLineBreak is true for each of the line boundaries, \r and \r\n included
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// explainKeys are primer3's reasons for not finding primers
var explainKeys = []string{
	"PRIMER_ERROR",
	"PRIMER_PAIR_EXPLAIN",
	"PRIMER_LEFT_EXPLAIN",
	"PRIMER_RIGHT_EXPLAIN",
}

// PickPair reads the first primer pair out of primer3's output.
func PickPair(out Output) (Pair, error) {
	for _, side := range []string{"LEFT", "RIGHT"} {
		field := fmt.Sprintf("PRIMER_%s_0_SEQUENCE", side)
		if _, ok := out[field]; !ok {
			return Pair{}, &MissingFieldError{Field: field, Detail: out.explain()}
		}
	}

	pairPenalty, _ := strconv.ParseFloat(out["PRIMER_PAIR_0_PENALTY"], 64)
	productSize, _ := strconv.Atoi(out["PRIMER_PAIR_0_PRODUCT_SIZE"])

	return Pair{
		Left:        out.primer("LEFT"),
		Right:       out.primer("RIGHT"),
		Penalty:     pairPenalty,
		ProductSize: productSize,
	}, nil
}

// primer reads in a single primer, side is either "LEFT" or "RIGHT"
func (o Output) primer(side string) Primer {
	seq := o[fmt.Sprintf("PRIMER_%s_0_SEQUENCE", side)]
	tm, _ := strconv.ParseFloat(o[fmt.Sprintf("PRIMER_%s_0_TM", side)], 64)
	gc, _ := strconv.ParseFloat(o[fmt.Sprintf("PRIMER_%s_0_GC_PERCENT", side)], 64)
	penalty, _ := strconv.ParseFloat(o[fmt.Sprintf("PRIMER_%s_0_PENALTY", side)], 64)

	// "start,length". a right primer's start is its rightmost base
	start, length := -1, len(seq)
	if pos, l, ok := strings.Cut(o[fmt.Sprintf("PRIMER_%s_0", side)], ","); ok {
		s, serr := strconv.Atoi(pos)
		n, nerr := strconv.Atoi(l)
		if serr == nil && nerr == nil {
			start, length = s, n
			if side == "RIGHT" {
				start = s - n + 1
			}
		}
	}

	return Primer{
		Seq:     seq,
		Start:   start,
		Len:     length,
		Tm:      tm,
		GC:      gc,
		Penalty: penalty,
	}
}

func (o Output) explain() string {
	var reasons []string
	for _, k := range explainKeys {
		if v := o[k]; v != "" {
			reasons = append(reasons, k+"="+v)
		}
	}
	return strings.Join(reasons, "; ")
}
