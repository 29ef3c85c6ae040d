// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/birdseye/internal/animation"
	"github.com/wneessen/birdseye/internal/camera"
	"github.com/wneessen/birdseye/internal/config"
	"github.com/wneessen/birdseye/internal/eventbus"
	"github.com/wneessen/birdseye/internal/frame"
	"github.com/wneessen/birdseye/internal/geo"
	"github.com/wneessen/birdseye/internal/http"
	"github.com/wneessen/birdseye/internal/logger"
	"github.com/wneessen/birdseye/internal/metrics"
	"github.com/wneessen/birdseye/internal/natspub"
	"github.com/wneessen/birdseye/internal/recorder"
	"github.com/wneessen/birdseye/internal/route"
	"github.com/wneessen/birdseye/internal/stream"
	"github.com/wneessen/birdseye/internal/surface"
)

const (
	animationTimeline = "timeline"
	animationLiftOff  = "liftoff"
	animationIdle     = "idle"

	themeUpdateInterval = 15 * time.Minute
)

// Status messages shown to viewers.
const (
	msgAnimationStart  localize.MsgID = "Animation Start"
	msgAnimationCancel localize.MsgID = "Animation Cancel"
	msgAnimationEnd    localize.MsgID = "Welcome to the end"
	msgAnimationRepeat localize.MsgID = "Animation Repeat"
	msgLiftOff         localize.MsgID = "Lift-off"
)

// ErrAnimationRunning is returned when an animation is requested while another one plays.
var ErrAnimationRunning = errors.New("an animation is already running")

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	t         *spreak.Localizer
	bus       *eventbus.Bus
	surface   *surface.Map
	driver    *frame.Driver
	scheduler gocron.Scheduler
	options   animation.Options
	settings  camera.Settings

	stream    *stream.Server
	publisher *natspub.Publisher
	recorder  *recorder.Recorder

	SignalSrc    signalSource
	sleepMonitor func(context.Context)

	routeLock sync.RWMutex
	route     route.Route

	playLock sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(conf *config.Config, log *logger.Logger, t *spreak.Localizer) (*Service, error) {
	opts, err := conf.AnimationOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid animation options: %w", err)
	}

	r, err := loadRoute(conf.Route.File, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load route: %w", err)
	}

	var publisher *natspub.Publisher
	bus := eventbus.New(log)
	if conf.NATS.URL != "" {
		conn, err := natspub.Connect(conf.NATS.URL)
		switch {
		case err != nil:
			log.Error("NATS publisher disabled", slog.String("url", conf.NATS.URL), logger.Err(err))
		default:
			publisher = natspub.New(log, bus, conn, conf.NATS.SubjectPrefix)
		}
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	settings := conf.CameraSettings()
	service := &Service{
		config:  conf,
		logger:  log,
		t:       t,
		bus:     bus,
		options: opts,
		surface: surface.New(bus, r,
			surface.WithCamera(camera.ForRoute(r, settings.ObliqueZoom, settings.ObliqueTilt)),
			surface.WithMarker(!conf.Marker.Hide),
			surface.WithBuildings(conf.Map.Buildings),
		),
		driver:    frame.New(conf.Frame.Interval, frame.WithTickHook(metrics.FrameTicks.Inc)),
		scheduler: scheduler,
		publisher: publisher,
		settings:  settings,
		route:     r,
		SignalSrc: stdLibSignalSource{},
	}
	service.sleepMonitor = service.monitorSleepResume

	if !conf.Server.Disable {
		service.stream = stream.New(log, bus, service, service)
	}
	if conf.GPSD.Enable {
		service.recorder = recorder.New(log, conf.GPSD.Host, conf.GPSD.Port, conf.GPSD.MinDistance)
		service.recorder.OnRecord(service.recordedWaypoint)
	}

	return service, nil
}

func (s *Service) Run(ctx context.Context) error {
	// Start scheduled jobs
	if err := s.createScheduledJob(ctx, themeUpdateInterval, s.updateTheme,
		"theme_update_job"); err != nil {
		return err
	}
	if s.config.Intervals.Replay > 0 {
		if err := s.createScheduledJob(ctx, s.config.Intervals.Replay, s.replay,
			"animation_replay_job"); err != nil {
			return err
		}
	}
	s.scheduler.Start()

	if s.sleepMonitor != nil {
		go s.sleepMonitor(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		defer s.SignalSrc.Stop(sigChan)
		s.HandleSignals(ctx, sigChan)
	}()

	var wg sync.WaitGroup
	if s.stream != nil {
		wg.Go(func() {
			if err := s.stream.Serve(ctx, s.config.Server.Listen); err != nil {
				s.logger.Error("stream server stopped", logger.Err(err))
			}
		})
	}
	if s.publisher != nil {
		wg.Go(func() { s.publisher.Run(ctx) })
	}
	if s.recorder != nil {
		wg.Go(func() { s.recorder.Run(ctx) })
	}

	if s.config.Playback.Autoplay {
		if err := s.Play(ctx); err != nil {
			s.logger.Error("failed to start animation", logger.Err(err))
		}
	}

	// Wait for the context to cancel
	<-ctx.Done()
	s.Cancel()
	wg.Wait()
	return s.scheduler.Shutdown()
}

// Play builds a fresh timeline for the current route, starting from the current camera
// bearing, and plays it in the background.
func (s *Service) Play(ctx context.Context) error {
	s.playLock.Lock()
	defer s.playLock.Unlock()
	if s.cancel != nil {
		return ErrAnimationRunning
	}

	timeline, err := animation.BuildTimeline(s.Route(), s.options, s.surface.Camera().Bearing,
		s.timelineHandlers())
	if err != nil {
		return fmt.Errorf("failed to build timeline: %w", err)
	}
	metrics.ObserveTimeline(timeline.Total())
	s.logger.Debug("timeline planned", slog.Int("segments", len(timeline.Segments())),
		slog.Duration("total", timeline.Total()))

	s.start(ctx, animationTimeline, timeline, func() string { return timeline.State().String() })
	return nil
}

// Cancel stops the running animation and waits until its cancel handlers have run. It does
// nothing if no animation is running.
func (s *Service) Cancel() {
	s.playLock.Lock()
	cancel, done := s.cancel, s.done
	s.playLock.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether an animation or camera transition is currently playing.
func (s *Service) Running() bool {
	s.playLock.Lock()
	defer s.playLock.Unlock()
	return s.cancel != nil
}

// ToggleAnimation cancels the running animation or starts a new one if none is running.
func (s *Service) ToggleAnimation(ctx context.Context) error {
	if s.Running() {
		s.Cancel()
		return nil
	}
	return s.Play(ctx)
}

// LiftOff moves the camera from maximum zoom down to the default zoom above the current
// camera target.
func (s *Service) LiftOff(ctx context.Context) error {
	s.playLock.Lock()
	defer s.playLock.Unlock()
	if s.cancel != nil {
		return ErrAnimationRunning
	}

	from := s.surface.Camera()
	positions, err := s.settings.LiftOff(from, s.config.Camera.LiftOffPositions)
	if err != nil {
		return fmt.Errorf("failed to plan lift-off: %w", err)
	}
	s.notify(msgLiftOff)

	// The lift-off starts by cutting to maximum zoom.
	transition := camera.NewTransition(positions[0], positions[1:], s.config.Camera.LiftOffStep,
		s.surface.SetCamera)
	transition.OnDone(func(cancelled bool) {
		s.logger.Debug("lift-off finished", slog.Bool("cancelled", cancelled))
	})
	s.start(ctx, animationLiftOff, transition, func() string { return animationIdle })
	return nil
}

// ToggleMarker shows or hides the route marker.
func (s *Service) ToggleMarker() bool {
	return s.surface.ToggleMarker()
}

// ToggleBuildings enables or disables 3D buildings.
func (s *Service) ToggleBuildings() bool {
	return s.surface.ToggleBuildings()
}

// TogglePerspective switches the camera between the oblique and the top view.
func (s *Service) TogglePerspective() {
	s.surface.SetCamera(s.settings.TogglePerspective(s.surface.Camera()))
}

// Route returns the route that the next animation will play.
func (s *Service) Route() route.Route {
	s.routeLock.RLock()
	defer s.routeLock.RUnlock()
	return s.route
}

// SetRoute replaces the route. A running animation keeps playing the previous route.
func (s *Service) SetRoute(r route.Route) {
	s.routeLock.Lock()
	s.route = r
	s.routeLock.Unlock()
	s.surface.SetRoute(r)
}

// Snapshot returns the current map state.
func (s *Service) Snapshot() surface.Snapshot {
	return s.surface.Snapshot()
}

// Plan returns the segments the next animation would play.
func (s *Service) Plan() ([]animation.Segment, error) {
	return animation.Plan(s.Route(), s.options, s.surface.Camera().Bearing)
}

// Bus returns the event bus the map publishes its changes on.
func (s *Service) Bus() *eventbus.Bus {
	return s.bus
}

// start runs the playable on the frame driver in the background. The caller must hold
// playLock. finalState reports the animation state shown once the playable returned.
func (s *Service) start(ctx context.Context, name string, p frame.Playable, finalState func() string) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.surface.SetPlaying(true, name)

	go func() {
		defer close(done)
		err := s.driver.Run(runCtx, p)
		cancel()

		// The final state is published under the lock so that it never overrides a newer animation.
		s.playLock.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
			s.surface.SetPlaying(false, finalState())
		}
		s.playLock.Unlock()

		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("animation stopped", slog.String("animation", name), logger.Err(err))
		}
	}()
}

func (s *Service) timelineHandlers() animation.Handlers {
	return animation.Handlers{
		OnStart: func() {
			s.notify(msgAnimationStart)
		},
		OnEnd: func() {
			metrics.Timelines.WithLabelValues(metrics.EventCompleted).Inc()
			s.notify(msgAnimationEnd)
		},
		OnCancel: func() {
			metrics.Timelines.WithLabelValues(metrics.EventCancelled).Inc()
			s.notify(msgAnimationCancel)
		},
		OnRepeat: func(iteration int) {
			metrics.Timelines.WithLabelValues(metrics.EventRepeated).Inc()
			s.logger.Debug("repeating route", slog.Int("iteration", iteration))
			s.notify(msgAnimationRepeat)
		},
		OnSegment: func(seg animation.Segment) {
			metrics.SegmentsPlayed.Inc()
			s.logger.Debug("entering segment", slog.Int("index", seg.Index),
				slog.Float64("heading", seg.HeadingOut), slog.Float64("distance", seg.Distance),
				slog.Duration("duration", seg.Duration()))
		},
		OnBearing:  s.surface.SetBearing,
		OnPosition: s.surface.SetPosition,
	}
}

// notify logs the localized status message and shows it to viewers.
func (s *Service) notify(msg localize.MsgID) {
	text := s.t.Get(msg)
	s.logger.Info(text)
	s.surface.Notify(text)
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// loadRoute reads the route from a local GeoJSON file or an http(s) URL. Without a source the
// demo route is returned.
func loadRoute(source string, log *logger.Logger) (route.Route, error) {
	switch {
	case source == "":
		return route.Demo(), nil
	case route.IsRemote(source):
		ctx, cancel := context.WithTimeout(context.Background(), http.DefaultTimeout)
		defer cancel()
		return route.Fetch(ctx, http.New(log), source)
	default:
		return route.LoadFile(source)
	}
}

// replay starts the animation unless one is already running.
func (s *Service) replay(ctx context.Context) {
	if s.Running() {
		return
	}
	if err := s.Play(ctx); err != nil && !errors.Is(err, ErrAnimationRunning) {
		s.logger.Error("failed to replay animation", logger.Err(err))
	}
}

func (s *Service) updateTheme(context.Context) {
	theme := s.surface.UpdateTheme(time.Now())
	s.logger.Debug("map theme updated", slog.String("theme", string(theme)))
}

// recordedWaypoint switches to the recorded gpsd route once it holds enough waypoints.
func (s *Service) recordedWaypoint(coord geo.Coordinate) {
	if s.recorder == nil || s.recorder.Len() < route.MinWaypoints {
		return
	}
	r, err := s.recorder.Route()
	if err != nil {
		s.logger.Error("failed to build recorded route", logger.Err(err))
		return
	}
	s.SetRoute(r)
	s.logger.Debug("recorded route updated", slog.String("waypoint", coord.String()),
		slog.Int("waypoints", r.Len()))
}
