package api

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/matt-g-everett/animtx/export"
	"github.com/matt-g-everett/animtx/playback"
	"github.com/matt-g-everett/animtx/scene"
)

// Transport is the part of the playback controller exposed over HTTP.
type Transport interface {
	Dispatch(cmd playback.Command, arg int) error
	Status() (playback.Status, error)
}

// Options for the HTTP surface.
type Options struct {
	// Tempo is used by start requests and exports that do not name one.
	Tempo    int
	Resolver scene.Resolver
}

// Api serves transport control, status and scene exports.
type Api struct {
	app       *fiber.App
	transport Transport
	current   func() *scene.Model
	opts      Options
}

// NewApi creates an instance of an Api. current returns the scene being
// played.
func NewApi(transport Transport, current func() *scene.Model, opts Options) *Api {
	a := new(Api)
	a.transport = transport
	a.current = current
	a.opts = opts
	if a.opts.Tempo <= 0 {
		a.opts.Tempo = 1
	}

	a.app = fiber.New(fiber.Config{AppName: "animtx"})
	a.app.Use(recover.New())
	a.app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
	}))

	a.app.Get("/playback", a.handleStatus)
	a.app.Post("/playback/:command", a.handleCommand)
	a.app.Get("/scene", a.handleDescribe)
	a.app.Get("/scene.svg", a.handleSVG)
	a.app.Get("/frame.png", a.handlePNG)
	return a
}

// App exposes the router, mostly for tests.
func (a *Api) App() *fiber.App {
	return a.app
}

// Serve listens on addr until ctx is cancelled.
func (a *Api) Serve(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		if err := a.app.Shutdown(); err != nil {
			log.Println(err)
		}
	}()

	log.Printf("Listening on %s...", addr)
	return a.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (a *Api) handleStatus(c fiber.Ctx) error {
	st, err := a.transport.Status()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

func (a *Api) handleCommand(c fiber.Ctx) error {
	cmd, err := playback.ParseCommand(c.Params("command"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	tempo, err := a.intQuery(c, "tempo", a.opts.Tempo)
	if err != nil {
		return fail(c, err)
	}
	if err := a.transport.Dispatch(cmd, tempo); err != nil {
		return fail(c, err)
	}
	return a.handleStatus(c)
}

func (a *Api) handleDescribe(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(a.current().Describe())
}

func (a *Api) handleSVG(c fiber.Ctx) error {
	tempo, err := a.intQuery(c, "tempo", a.opts.Tempo)
	if err != nil {
		return fail(c, err)
	}
	var buf bytes.Buffer
	if err := export.WriteSVG(&buf, a.current(), tempo); err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

func (a *Api) handlePNG(c fiber.Ctx) error {
	tick, err := a.intQuery(c, "tick", 0)
	if err != nil {
		return fail(c, err)
	}
	if tick < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tick must not be negative"})
	}
	f := playback.FrameAt(a.current(), tick, a.opts.Resolver)
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, f); err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func (a *Api) intQuery(c fiber.Ctx, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Join(scene.ErrInvalidArgument, err)
	}
	return n, nil
}

// fail maps transport and scene errors onto HTTP statuses.
func fail(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, scene.ErrInvalidArgument):
		status = fiber.StatusBadRequest
	case errors.Is(err, playback.ErrInvalidState):
		status = fiber.StatusConflict
	case errors.Is(err, playback.ErrClosed):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
