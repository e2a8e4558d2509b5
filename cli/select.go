package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"

	"go.ntppool.org/common/logger"

	"go.ntppool.org/locselect/extract"
	"go.ntppool.org/locselect/locselect"
)

type SelectCmd struct {
	Inputs `embed:""`

	JSON bool `name:"json" help:"print the result as JSON"`
}

func (cmd *SelectCmd) Run(ctx context.Context) error {
	return cmd.run(ctx, os.Stdout)
}

func (cmd *SelectCmd) run(ctx context.Context, w io.Writer) error {
	res, err := evaluate(ctx, &cmd.Inputs, nil)
	if err != nil {
		return err
	}
	if cmd.JSON {
		return writeJSON(w, res)
	}
	return writeText(w, res)
}

// evaluate loads the inputs and runs one selection over them
func evaluate(ctx context.Context, in *Inputs, metrics *locselect.Metrics) (*extract.Result, error) {
	log := logger.FromContext(ctx)

	input, node, err := in.load()
	if err != nil {
		return nil, err
	}

	ex := &extract.Extractor{
		Workers: in.Workers,
		Log:     log,
		Metrics: metrics,
	}
	return ex.Run(ctx, node, input)
}

type blockReport struct {
	FlatIndex int    `json:"flat_index"`
	Kind      string `json:"kind"`
	Evaluated bool   `json:"evaluated"`
	Elements  int    `json:"elements"`
	Selected  []int  `json:"selected"`
}

type report struct {
	RunID       string        `json:"run_id"`
	Association string        `json:"association"`
	Inverse     bool          `json:"inverse"`
	Selected    int           `json:"selected"`
	Blocks      []blockReport `json:"blocks"`
}

func newReport(res *extract.Result) report {
	r := report{
		RunID:       res.RunID.String(),
		Association: res.Association.String(),
		Inverse:     res.Inverse,
		Selected:    res.Selected(),
		Blocks:      make([]blockReport, 0, len(res.Blocks)),
	}
	for _, b := range res.Blocks {
		br := blockReport{
			FlatIndex: b.FlatIndex,
			Kind:      b.Kind,
			Evaluated: b.Evaluated,
			Selected:  b.SelectedIDs(),
		}
		if b.Array != nil {
			br.Elements = b.Array.Len()
		}
		if br.Selected == nil {
			br.Selected = []int{}
		}
		r.Blocks = append(r.Blocks, br)
	}
	return r
}

func writeJSON(w io.Writer, res *extract.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newReport(res))
}

func writeText(w io.Writer, res *extract.Result) error {
	r := newReport(res)

	_, err := fmt.Fprint(w, heredoc.Docf(`
		Run:          %s
		Association:  %s
		Inverse:      %t
		Selected:     %d
		`,
		r.RunID, r.Association, r.Inverse, r.Selected,
	))
	if err != nil {
		return err
	}

	for _, b := range r.Blocks {
		if !b.Evaluated {
			_, err = fmt.Fprintf(w, "  block %d (%s): not evaluated\n", b.FlatIndex, b.Kind)
		} else {
			_, err = fmt.Fprintf(w, "  block %d (%s): %d of %d selected %v\n",
				b.FlatIndex, b.Kind, len(b.Selected), b.Elements, b.Selected)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
