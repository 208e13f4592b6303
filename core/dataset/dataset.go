// Package dataset provides the immutable labeled dataset consumed by the
// evaluation engine, together with index-based partition views.
//
// A Dataset pairs a gonum feature matrix with a binary label vector and an
// explicit Schema naming every feature column, the label column, and the
// positive (minority) class value. The Schema replaces formula-style model
// specification: it is validated once at construction and never re-derived.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// Schema is the explicit column specification of a dataset: an ordered list
// of feature names, one label name, and the label value treated as the
// positive (minority) class.
type Schema struct {
	FeatureNames  []string
	LabelName     string
	PositiveLabel float64
}

// NewSchema validates and returns a Schema.
func NewSchema(featureNames []string, labelName string, positiveLabel float64) (Schema, error) {
	if len(featureNames) == 0 {
		return Schema{}, errors.NewValueError("dataset.NewSchema", "at least one feature column is required")
	}
	if labelName == "" {
		return Schema{}, errors.NewValueError("dataset.NewSchema", "label column name must not be empty")
	}
	seen := make(map[string]bool, len(featureNames)+1)
	for _, name := range featureNames {
		if name == "" {
			return Schema{}, errors.NewValueError("dataset.NewSchema", "feature column names must not be empty")
		}
		if seen[name] {
			return Schema{}, errors.NewValidationError("featureNames", "duplicate column name", name)
		}
		seen[name] = true
	}
	if seen[labelName] {
		return Schema{}, errors.NewValidationError("labelName", "label column collides with a feature column", labelName)
	}
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return Schema{FeatureNames: names, LabelName: labelName, PositiveLabel: positiveLabel}, nil
}

// Dataset is a read-only pairing of a feature matrix with a binary label
// vector. Class counts are computed once at construction; accessors are O(1).
type Dataset struct {
	x      *mat.Dense
	y      []float64
	schema Schema

	negativeLabel float64
	positiveCount int
	negativeCount int
}

// New constructs a Dataset, validating shape agreement and the binary label
// domain. The label vector must contain exactly two distinct values, one of
// which is the schema's positive label. The inputs are copied; later
// mutation of the arguments does not affect the dataset.
func New(x *mat.Dense, y []float64, schema Schema) (*Dataset, error) {
	if x == nil || len(y) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	rows, cols := x.Dims()
	if rows != len(y) {
		return nil, errors.NewDimensionError("dataset.New", rows, len(y), 0)
	}
	if cols != len(schema.FeatureNames) {
		return nil, errors.NewDimensionError("dataset.New", len(schema.FeatureNames), cols, 1)
	}
	if err := errors.CheckNumericalStability("dataset.New", y, 0); err != nil {
		return nil, err
	}

	ds := &Dataset{
		x:      mat.DenseCopyOf(x),
		y:      append([]float64(nil), y...),
		schema: schema,
	}

	sawNegative := false
	for i, label := range y {
		switch {
		case label == schema.PositiveLabel:
			ds.positiveCount++
		case !sawNegative:
			ds.negativeLabel = label
			ds.negativeCount++
			sawNegative = true
		case label == ds.negativeLabel:
			ds.negativeCount++
		default:
			return nil, errors.NewValidationError("y",
				"label domain must contain exactly two values", y[i])
		}
	}
	if ds.positiveCount == 0 {
		return nil, errors.NewValueError("dataset.New", "no samples carry the positive label")
	}
	if ds.negativeCount == 0 {
		return nil, errors.NewValueError("dataset.New", "no samples carry a negative label")
	}
	return ds, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.y) }

// NumFeatures returns the feature column count.
func (d *Dataset) NumFeatures() int { return len(d.schema.FeatureNames) }

// Schema returns the dataset schema.
func (d *Dataset) Schema() Schema { return d.schema }

// MinorityCount returns the number of positive-class records.
func (d *Dataset) MinorityCount() int { return d.positiveCount }

// MajorityCount returns the number of negative-class records.
func (d *Dataset) MajorityCount() int { return d.negativeCount }

// Prior returns the minority prevalence, MinorityCount / Len.
func (d *Dataset) Prior() float64 {
	return float64(d.positiveCount) / float64(len(d.y))
}

// Label returns the raw label value of record i.
func (d *Dataset) Label(i int) float64 { return d.y[i] }

// IsPositive reports whether record i carries the positive label.
func (d *Dataset) IsPositive(i int) bool { return d.y[i] == d.schema.PositiveLabel }

// All returns a partition covering every record in order.
func (d *Dataset) All() Partition {
	indices := make([]int, len(d.y))
	for i := range indices {
		indices[i] = i
	}
	return Partition{ds: d, indices: indices}
}

// Subset returns a partition over the given record indices. The index slice
// is copied; out-of-range indices are rejected.
func (d *Dataset) Subset(indices []int) (Partition, error) {
	if len(indices) == 0 {
		return Partition{}, errors.WithStack(errors.ErrEmptyData)
	}
	out := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(d.y) {
			return Partition{}, errors.NewValidationError("indices", "record index out of range", idx)
		}
		out[i] = idx
	}
	return Partition{ds: d, indices: out}, nil
}
