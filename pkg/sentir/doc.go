// Package sentir analyzes the sentiment of a folder of documents.
//
// An Analyzer enumerates the documents of the configured folder and runs each
// one through extract, normalize, score and classify on a bounded worker pool.
// Successful documents are partitioned into Positive, Neutral and Negative;
// documents that fail are reported separately without affecting the rest of
// the batch.
//
//	an := sentir.New(sentir.Options{Config: cfg})
//	rep, err := an.Run(ctx)
package sentir
