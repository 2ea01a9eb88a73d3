// ABOUTME: Shared recording session driver for the record and replay commands
// ABOUTME: Starts a recording, feeds it from a position source and saves or discards it

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/metrics"
	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/position"
	"github.com/harper/trail/internal/ui"
)

// finiteSource is a position source that ends on its own.
type finiteSource interface {
	position.Source
	Done() <-chan struct{}
}

type sessionOptions struct {
	details     models.Details
	tracking    position.Options
	discard     bool
	quiet       bool
	metricsAddr string
}

// runSession records from src until it ends or ctx is canceled.
// It returns the saved path, or the discarded one when opts.discard is set.
func runSession(ctx context.Context, out io.Writer, src finiteSource, opts sessionOptions) (*models.Path, error) {
	var unsubs []bus.Unsubscribe
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	if opts.metricsAddr != "" {
		m := metrics.New()
		unsubs = append(unsubs, m.Attach(svc.Bus()))
		shutdown := serveMetrics(opts.metricsAddr, m.Handler())
		defer shutdown()
	}
	if !opts.quiet {
		unsubs = append(unsubs, svc.OnRecordingStatsUpdated(func(s models.Stats) {
			_, _ = fmt.Fprintf(out, "\r%s   ", ui.FormatStats(&s))
		}))
	}
	unsubs = append(unsubs, svc.OnRecordingError(func(err error) {
		logger.Warn("recording error", "err", err)
	}))

	granted, err := src.RequestPermission(ctx)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, errors.New("position permission denied")
	}

	p, err := svc.StartRecording()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New("a recording is already in progress")
	}

	if !opts.details.Empty() {
		if _, err := svc.UpdateRecordingDetails(opts.details); err != nil {
			svc.CancelRecording()
			return nil, err
		}
	}
	if err := src.StartTracking(ctx, opts.tracking); err != nil {
		svc.CancelRecording()
		return nil, err
	}

	select {
	case <-ctx.Done():
	case <-src.Done():
	}
	src.StopTracking()
	if !opts.quiet {
		_, _ = fmt.Fprintln(out)
	}

	if opts.discard {
		return svc.CancelRecording(), nil
	}
	return svc.StopRecording(context.WithoutCancel(ctx))
}

// serveMetrics exposes the Prometheus handler on addr until the returned func is called.
func serveMetrics(addr string, h http.Handler) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

// printOutcome reports a saved or discarded recording.
func printOutcome(out io.Writer, p *models.Path, discarded bool) {
	if p == nil {
		_, _ = fmt.Fprintln(out, "Nothing was recorded.")
		return
	}
	if discarded {
		_, _ = fmt.Fprintf(out, "Discarded %s (%d points)\n", p.Name, len(p.Points))
		return
	}
	_, _ = fmt.Fprintln(out, ui.FormatSaved(p))
}
