// Copyright 2025 Tactics ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides the public API for dataset loading and
// partitioning in the Tactics ML framework.
//
// A Loader ingests CSV into a Dataset of records stacked along the
// leading axis; WithLabels routes chosen columns into a separate label
// buffer. Datasets shuffle, split, k-fold, and batch.
//
// Example:
//
//	ds, err := data.NewLoader().WithLabels(4).FromCSV("iris.csv", tensor.Shape{4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	parts := ds.Shuffle(rng).Split(120, 30)
//	train, validation := parts[0], parts[1]
package data

import (
	"github.com/tactics-ml/tactics/internal/data"
	"github.com/tactics-ml/tactics/internal/tensor"
)

// Loader is a configurable CSV data loader.
type Loader = data.Loader

// NewLoader creates a loader that expects a header row and ',' fields.
func NewLoader() *Loader {
	return data.NewLoader()
}

// LabeledLoader is a CSV loader that routes chosen columns into a label
// buffer.
type LabeledLoader = data.LabeledLoader

// Dataset is a collection of unlabeled records.
type Dataset = data.Dataset

// FromBuffer wraps an existing buffer as a dataset. The leading axis
// indexes records.
func FromBuffer(records *tensor.Buffer) *Dataset {
	return data.FromBuffer(records)
}

// LabeledDataset pairs records with labels, kept in lockstep by every
// operation.
type LabeledDataset = data.LabeledDataset

// NewLabeledDataset pairs records with labels.
func NewLabeledDataset(records, labels *tensor.Buffer) *LabeledDataset {
	return data.NewLabeledDataset(records, labels)
}

// KFold iterates over the cross validation splits of a dataset.
type KFold = data.KFold

// LabeledKFold iterates over the cross validation splits of a labeled
// dataset.
type LabeledKFold = data.LabeledKFold

// Batch iterates over fixed-size chunks of a dataset.
type Batch = data.Batch

// LabeledBatch iterates over fixed-size chunks of record/label pairs.
type LabeledBatch = data.LabeledBatch
