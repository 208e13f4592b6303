// Package imbalearn provides an evaluation harness for binary classifiers
// trained on extremely imbalanced data.
//
// Imbalearn plays the role next to SciGo that imbalanced-learn plays next to
// scikit-learn: the gradient-boosted classifier itself is consumed through a
// narrow trainer interface, while this library owns the parts of the workflow
// with real correctness hazards: leakage-safe stratified splitting,
// per-fold resampling applied to training partitions only, hyperparameter
// grid search scored by PR-AUC, and post-hoc threshold optimization on the
// precision-recall curve.
//
// # Quick Start
//
//	ds, err := dataset.New(X, y, schema)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	grid := modelselection.Expand(
//	    []int{50}, []int{15, 31}, []float64{0.05, 0.1}, []int{20},
//	)
//	report, err := evaluation.Compare(context.Background(), ds,
//	    []evaluation.Candidate{
//	        {Name: "baseline", Strategy: resample.None{}},
//	        {Name: "smote", Strategy: resample.SMOTE{KNeighbors: 5}},
//	    },
//	    grid, lightgbm.NewTrainer(42), evaluation.Config{Folds: 5, Seed: 42},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report["smote"].TestPRAUC)
//
// # Packages
//
//   - core/dataset: immutable dataset with an explicit binary-label schema
//   - core/model: trainer/model interfaces and hyperparameter tuples
//   - core/parallel: worker pool with an explicit acquire/release lifecycle
//   - metrics: PR curves, PR-AUC, ROC-AUC, confusion matrices, F1 cutoffs
//   - resample: up/down-sampling, SMOTE, and class weighting strategies
//   - modelselection: stratified splitting and cross-validated grid search
//   - evaluation: multi-strategy comparison runs producing a report
//   - trainer/lightgbm: adapter over SciGo's LGBMClassifier
//
// # Correctness Contract
//
// Resampling and reweighting are applied to training partitions only;
// validation and test partitions always retain the original class
// distribution. Fold assignments are deterministic per seed, so two runs
// configured with the same seed replay identical folds and are directly
// comparable across remediation strategies.
package imbalearn
