package application

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

// fanOut runs produce once and copies its output to every sink, each drained
// by its own goroutine. The first failure anywhere closes all pipes with that
// error so neither the producer nor the other sinks block.
func fanOut(ctx context.Context, produce func(io.Writer) error, sinks ...io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	writers := make([]*io.PipeWriter, 0, len(sinks))
	outputs := make([]io.Writer, 0, len(sinks))
	for _, sink := range sinks {
		pr, pw := io.Pipe()
		writers = append(writers, pw)
		outputs = append(outputs, pw)
		g.Go(func() error {
			_, err := io.Copy(sink, pr)
			pr.CloseWithError(err)
			return err
		})
	}
	closeAll := func(err error) {
		for _, pw := range writers {
			pw.CloseWithError(err)
		}
	}
	stop := context.AfterFunc(gctx, func() { closeAll(context.Cause(gctx)) })
	defer stop()

	g.Go(func() error {
		err := produce(io.MultiWriter(outputs...))
		closeAll(err)
		return err
	})
	return g.Wait()
}
