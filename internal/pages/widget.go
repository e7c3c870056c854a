package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type WidgetState int

const (
	WidgetEmpty WidgetState = iota
	WidgetReady
	WidgetFailed
)

func (s WidgetState) String() string {
	switch s {
	case WidgetReady:
		return "ready"
	case WidgetFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Widget is one independently loaded section of a page.
type Widget[T any] struct {
	State WidgetState
	Data  T
}

func (w Widget[T]) Ready() bool  { return w.State == WidgetReady }
func (w Widget[T]) Empty() bool  { return w.State == WidgetEmpty }
func (w Widget[T]) Failed() bool { return w.State == WidgetFailed }

// WidgetObserver is notified when a widget ends up Failed.
type WidgetObserver interface {
	ObserveWidgetFailure(widget string)
}

type noopObserver struct{}

func (noopObserver) ObserveWidgetFailure(string) {}

var errWidgetUnavailable = errors.New("widget data unavailable")

// load schedules fetch on g and stores its outcome in slot. The goroutine never returns an error,
// so a failing widget cannot cancel its siblings.
func load[T any](
	ctx context.Context,
	g *errgroup.Group,
	observer WidgetObserver,
	name string,
	slot *Widget[T],
	fetch func(context.Context) (T, error),
	isEmpty func(T) bool,
) {
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("widget", name).Str("panic", fmt.Sprint(r)).Msg("Widget panicked")
				*slot = Widget[T]{State: WidgetFailed}
				observer.ObserveWidgetFailure(name)
			}
		}()

		data, err := fetch(ctx)
		if err != nil {
			log.Warn().Err(err).Str("widget", name).Msg("Widget failed to load")
			*slot = Widget[T]{State: WidgetFailed}
			observer.ObserveWidgetFailure(name)
			return nil
		}

		if isEmpty(data) {
			*slot = Widget[T]{State: WidgetEmpty, Data: data}
			return nil
		}
		*slot = Widget[T]{State: WidgetReady, Data: data}
		return nil
	})
}

func emptySlice[T any](s []T) bool {
	return len(s) == 0
}
