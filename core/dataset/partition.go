package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// Partition is an index view over a Dataset. It never copies feature rows;
// materialization to matrices happens only at trainer and metric boundaries.
// The zero value is invalid; partitions come from Dataset.All, Dataset.Subset,
// or the splitters in modelselection.
type Partition struct {
	ds      *Dataset
	indices []int
}

// Len returns the number of records in the partition.
func (p Partition) Len() int { return len(p.indices) }

// Indices returns a copy of the record indices.
func (p Partition) Indices() []int {
	return append([]int(nil), p.indices...)
}

// Dataset returns the underlying dataset.
func (p Partition) Dataset() *Dataset { return p.ds }

// ClassCounts returns the number of minority and majority records in the view.
func (p Partition) ClassCounts() (minority, majority int) {
	for _, idx := range p.indices {
		if p.ds.IsPositive(idx) {
			minority++
		} else {
			majority++
		}
	}
	return minority, majority
}

// Materialize copies the partition into a dense feature matrix and a 0/1
// label vector, with 1 marking the positive (minority) class. Row order
// follows the partition's index order.
func (p Partition) Materialize() (*mat.Dense, []float64) {
	cols := p.ds.NumFeatures()
	x := mat.NewDense(len(p.indices), cols, nil)
	y := make([]float64, len(p.indices))
	for i, idx := range p.indices {
		x.SetRow(i, p.ds.x.RawRowView(idx))
		if p.ds.IsPositive(idx) {
			y[i] = 1
		}
	}
	return x, y
}

// Labels returns the partition's labels as a 0/1 vector, 1 = positive class.
func (p Partition) Labels() []float64 {
	y := make([]float64, len(p.indices))
	for i, idx := range p.indices {
		if p.ds.IsPositive(idx) {
			y[i] = 1
		}
	}
	return y
}

// ToDataset materializes the partition as a standalone Dataset with the same
// schema but a 0/1 label domain. Grid search runs against such extracted
// training sets so fold construction inside the search can never read
// records outside the partition.
func (p Partition) ToDataset() (*Dataset, error) {
	if len(p.indices) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	x, y := p.Materialize()
	schema := p.ds.schema
	schema.PositiveLabel = 1
	return New(x, y, schema)
}
