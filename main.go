package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matt-g-everett/animtx/api"
	"github.com/matt-g-everett/animtx/export"
	"github.com/matt-g-everett/animtx/playback"
	"github.com/matt-g-everett/animtx/scene"
	"github.com/matt-g-everett/animtx/scenefile"
	"github.com/matt-g-everett/animtx/stream"
	"github.com/matt-g-everett/animtx/tui"
)

type app struct {
	Config   Config
	Client   mqtt.Client
	Commands *stream.Commands

	scenePath string
	model     atomic.Pointer[scene.Model]
	ctl       *playback.Controller
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	if a.Commands == nil || a.Config.Mqtt.Topics.Commands == "" {
		return
	}
	if err := a.Commands.Subscribe(); err != nil {
		log.Printf("Failed to subscribe to %s: %v", a.Config.Mqtt.Topics.Commands, err)
	}
}

// connect opens the broker connection when one is configured and returns the
// frame publisher, or nil.
func (a *app) connect() (playback.Renderer, error) {
	if !a.Config.Mqtt.Enabled() {
		return nil, nil
	}

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("animtx-" + uuid.NewString()).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	if a.Config.Mqtt.Topics.Frames == "" {
		return nil, nil
	}
	return stream.NewPublisher(a.Client, a.Config.Mqtt.Topics.Frames), nil
}

func (a *app) disconnect() {
	if a.Client != nil && a.Client.IsConnected() {
		a.Client.Disconnect(250)
	}
}

// newController builds the playback controller over the loaded scene and
// wires the MQTT command subscriber to it.
func (a *app) newController(onStop func(playback.Status), renderers ...playback.Renderer) (*playback.Controller, error) {
	resolver, err := a.Config.resolver()
	if err != nil {
		return nil, err
	}
	step, err := a.Config.stepped()
	if err != nil {
		return nil, err
	}

	var rs playback.Renderers
	for _, r := range renderers {
		if r != nil {
			rs = append(rs, r)
		}
	}
	a.ctl = playback.NewController(a.model.Load(), rs, playback.Options{
		Policy: resolver.Policy,
		Easing: resolver.Easing,
		Step:   step,
		Loop:   a.Config.Playback.Loop,
		OnStop: onStop,
	})
	if a.Client != nil {
		a.Commands = stream.NewCommands(a.Config.Mqtt, a.Client, a.ctl)
		a.handleOnConnect(a.Client)
	}
	return a.ctl, nil
}

// watch reloads the scene into the controller whenever the file changes.
func (a *app) watch(ctx context.Context) error {
	return scenefile.Watch(ctx, a.scenePath, func(m *scene.Model) {
		a.model.Store(m)
		if err := a.ctl.Load(m); err != nil {
			log.Printf("Failed to load %s: %v", a.scenePath, err)
		}
	})
}

func (a *app) runPlayback(ctx context.Context, tempo int, watch bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	publisher, err := a.connect()
	if err != nil {
		return err
	}
	defer a.disconnect()

	ctl, err := a.newController(nil, tui.NewSurface(screen), publisher)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctl.Run(ctx) })
	g.Go(func() error {
		if err := ctl.Start(tempo); err != nil {
			return err
		}
		return tui.Run(ctx, screen, ctl, tempo)
	})
	if watch {
		g.Go(func() error { return a.watch(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, tui.ErrQuit) {
		return err
	}
	return nil
}

// runStream publishes playback until it stops. With a commands topic the
// broker can start it again, so the view then runs until ctx is cancelled.
func (a *app) runStream(ctx context.Context, tempo int, watch bool) error {
	publisher, err := a.connect()
	if err != nil {
		return err
	}
	if publisher == nil {
		return errors.New("stream view needs mqtt.url and mqtt.topics.frames")
	}
	defer a.disconnect()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctl, err := a.newController(a.streamStopped(cancel), publisher)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctl.Run(ctx) })
	g.Go(func() error { return ctl.Start(tempo) })
	if watch {
		g.Go(func() error { return a.watch(ctx) })
	}
	return g.Wait()
}

// streamStopped ends the stream view once playback stops, unless commands
// can still arrive over MQTT.
func (a *app) streamStopped(cancel context.CancelFunc) func(playback.Status) {
	if a.Config.Mqtt.Topics.Commands != "" {
		return nil
	}
	return func(st playback.Status) {
		log.Printf("Playback stopped at tick %d", st.Tick)
		cancel()
	}
}

func (a *app) runServe(ctx context.Context, tempo int, watch bool) error {
	publisher, err := a.connect()
	if err != nil {
		return err
	}
	defer a.disconnect()

	ctl, err := a.newController(nil, publisher)
	if err != nil {
		return err
	}
	resolver, _ := a.Config.resolver()
	server := api.NewApi(ctl, a.model.Load, api.Options{Tempo: tempo, Resolver: resolver})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctl.Run(ctx) })
	g.Go(func() error { return server.Serve(ctx, a.Config.Api.Listen) })
	if watch {
		g.Go(func() error { return a.watch(ctx) })
	}
	return g.Wait()
}

// writeStatic renders the text, SVG and PNG views once.
func (a *app) writeStatic(w io.Writer, view string, tempo, tick int) error {
	m := a.model.Load()
	switch view {
	case "text":
		_, err := io.WriteString(w, m.Describe())
		return err
	case "svg":
		return export.WriteSVG(w, m, tempo)
	case "png":
		resolver, err := a.Config.resolver()
		if err != nil {
			return err
		}
		return export.WritePNG(w, playback.FrameAt(m, tick, resolver))
	}
	return fmt.Errorf("%w: unknown view %q", scene.ErrInvalidArgument, view)
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	in := flag.String("in", "", "Scene file, text or YAML. Defaults to the config's scene.")
	out := flag.String("out", "", "Output file for the text, svg and png views. Defaults to stdout.")
	view := flag.String("view", "text", "One of text, svg, png, playback, stream or serve.")
	speed := flag.Int("speed", 0, "Tempo in ticks per second. Defaults to the config's tempo.")
	tick := flag.Int("tick", 0, "Tick painted by the png view.")
	watch := flag.Bool("watch", false, "Reload the scene when its file changes.")
	logPath := flag.String("log", "animtx.log", "Log file used while the playback view owns the terminal.")
	flag.Parse()

	// Read the config
	a := newApp()
	if err := a.readConfig(*configPath); err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	a.scenePath = *in
	if a.scenePath == "" {
		a.scenePath = a.Config.Scene
	}
	if a.scenePath == "" {
		log.Fatal("No scene given: use -in or set scene in the config")
	}
	m, err := scenefile.Read(a.scenePath)
	if err != nil {
		log.Fatalf("Failed to read scene: %v", err)
	}
	a.model.Store(m)

	tempo := a.Config.Playback.Tempo
	if *speed != 0 {
		tempo = *speed
	}
	if tempo <= 0 {
		log.Fatalf("Tempo must be positive, got %d", tempo)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *view {
	case "playback":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
		mqtt.ERROR = log.New(f, "", 0)
		err = a.runPlayback(ctx, tempo, *watch)
		log.SetOutput(os.Stderr)
		if err != nil {
			log.Fatal(err)
		}
	case "stream":
		log.Printf("Config: %+v", a.Config.Playback)
		if err := a.runStream(ctx, tempo, *watch); err != nil {
			log.Fatal(err)
		}
	case "serve":
		log.Printf("Config: %+v", a.Config.Playback)
		if err := a.runServe(ctx, tempo, *watch); err != nil {
			log.Fatal(err)
		}
	default:
		w := io.Writer(os.Stdout)
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()
			w = f
		}
		if err := a.writeStatic(w, *view, tempo, *tick); err != nil {
			log.Fatal(err)
		}
	}
}
