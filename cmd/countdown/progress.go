package main

import (
	"fmt"
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"github.com/vnykmshr/countdown/pkg/countdown"
)

// progressBar renders a countdown as an mpb bar that fills as time runs out.
type progressBar struct {
	p     *mpb.Progress
	bar   *mpb.Bar
	total int64
}

func newProgressBar(w io.Writer, name string, seconds int) *progressBar {
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(64))
	total := int64(seconds)

	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")
	bar := p.New(total,
		barStyle,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.OnComplete(
				decor.Any(func(s decor.Statistics) string {
					return fmt.Sprintf("%ds left", s.Total-s.Current)
				}, decor.WC{W: 10}), "done",
			),
		),
		mpb.AppendDecorators(
			decor.Elapsed(decor.ET_STYLE_GO),
		),
	)

	return &progressBar{p: p, bar: bar, total: total}
}

// Handle moves the bar to match e. It satisfies countdown.Handler.
func (pb *progressBar) Handle(e countdown.Event) error {
	switch e.Kind {
	case countdown.EventTick, countdown.EventFinish, countdown.EventReset:
		pb.bar.SetCurrent(pb.total - int64(e.Info.Remaining))
	}
	return nil
}

// Close aborts the bar unless it already completed and waits for the last
// render.
func (pb *progressBar) Close() {
	if !pb.bar.Completed() {
		pb.bar.Abort(false)
	}
	pb.p.Wait()
}
