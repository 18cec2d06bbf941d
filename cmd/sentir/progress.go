package main

import (
	"io"
	"log"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/cognicore/sentir/pkg/sentir"
	"github.com/cognicore/sentir/pkg/sentir/aggregate"
)

// logObserver logs skipped documents as they fail.
type logObserver struct{}

func (logObserver) Started(total int) {
	log.Printf("Analyzing %d documents", total)
}

func (logObserver) Completed(aggregate.Result) {}

func (logObserver) Failed(f sentir.Failure) {
	log.Printf("skip %s (%s): %v", f.Filename, f.Stage, f.Err)
}

// progressObserver drives a progress bar with one tick per document.
type progressObserver struct {
	out io.Writer
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgressObserver(out io.Writer) *progressObserver {
	return &progressObserver{out: out}
}

func (o *progressObserver) Started(total int) {
	if total == 0 {
		return
	}
	o.p = mpb.New(mpb.WithWidth(80), mpb.WithOutput(o.out))
	o.bar = o.p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Analyzing documents: "),
			decor.CountersNoUnit("%d / %d", decor.WCSyncSpace),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!"),
		),
	)
}

func (o *progressObserver) Completed(aggregate.Result) { o.tick() }

func (o *progressObserver) Failed(sentir.Failure) { o.tick() }

func (o *progressObserver) tick() {
	if o.bar != nil {
		o.bar.Increment()
	}
}

// Wait blocks until the bar has rendered its final state.
func (o *progressObserver) Wait() {
	if o.p != nil {
		o.p.Wait()
	}
}
