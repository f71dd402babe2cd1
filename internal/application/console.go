package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"intillasense/internal/domain"
	"intillasense/internal/domain/model"
	"intillasense/internal/infra/capture"
	"intillasense/internal/usecase"
)

// Console composes the usecases into the interactive client surface. Handler
// methods return display strings so the loop just prints them; that keeps
// every command testable without a terminal.
type Console struct {
	Sessions usecase.SessionUseCase
	Prefs    *usecase.PrefsUseCase
	Composer *capture.Composer

	in  io.Reader
	out io.Writer
	log *zerolog.Logger
}

func NewConsole(sessions usecase.SessionUseCase, prefs *usecase.PrefsUseCase, composer *capture.Composer, in io.Reader, out io.Writer, log *zerolog.Logger) *Console {
	return &Console{
		Sessions: sessions,
		Prefs:    prefs,
		Composer: composer,
		in:       in,
		out:      out,
		log:      log,
	}
}

// Run reads lines until EOF or /quit. Submissions run in the background so
// typing and attaching stay usable while a request is in flight; a second
// submission attempt is rejected, not queued.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "IntillaSense — tillage advisory client. /help for commands.")
	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	c.prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" || line == "/exit" {
			return nil
		}
		out, err := c.Handle(ctx, line)
		if err != nil {
			fmt.Fprintf(c.out, "! %v\n", err)
		} else if out != "" {
			fmt.Fprintln(c.out, out)
		}
		c.prompt()
	}
	return scanner.Err()
}

func (c *Console) prompt() {
	farm := c.Sessions.Farm().Label()
	if c.Sessions.Busy() {
		fmt.Fprintf(c.out, "[%s] (waiting) > ", farm)
		return
	}
	fmt.Fprintf(c.out, "[%s] > ", farm)
}

// Handle dispatches one input line. Bare text is a submission; slash
// commands drive everything else.
func (c *Console) Handle(ctx context.Context, line string) (string, error) {
	if line == "" {
		return "", nil
	}
	if !strings.HasPrefix(line, "/") {
		return c.submit(ctx, line)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/help":
		return helpText, nil
	case "/new":
		id := c.Sessions.CreateSession()
		return "started new session " + id, nil
	case "/list":
		return c.renderSidebar(), nil
	case "/select":
		return c.selectSession(arg)
	case "/delete":
		return c.deleteSession(arg)
	case "/farm":
		return c.setFarm(arg)
	case "/image":
		if arg == "" {
			return "", fmt.Errorf("usage: /image <path>")
		}
		if err := c.Composer.AttachImageFile(arg); err != nil {
			return "", err
		}
		return "image attached: " + arg, nil
	case "/clear-image":
		c.Composer.ClearImage()
		return "image cleared", nil
	case "/speech":
		return c.dictate(ctx)
	case "/theme":
		return "theme: " + c.Prefs.ToggleTheme(ctx), nil
	case "/sidebar":
		if c.Prefs.ToggleSidebar(ctx) {
			return "sidebar collapsed", nil
		}
		return "sidebar expanded", nil
	case "/show":
		return c.renderDisplayed(), nil
	default:
		return "", fmt.Errorf("unknown command %q, /help for commands", cmd)
	}
}

// submit sends the line (plus any staged image) in the background and prints
// the outcome when the call resolves.
func (c *Console) submit(ctx context.Context, line string) (string, error) {
	if c.Sessions.Busy() {
		return "", domain.ErrSubmissionInFlight
	}
	c.Composer.SetText(line)
	text, image := c.Composer.Take()
	in := usecase.SubmitInput{Text: text, Image: image}

	go func() {
		if err := c.Sessions.Submit(ctx, in); err != nil {
			switch {
			case errors.Is(err, domain.ErrNoInput):
				fmt.Fprintln(c.out, "! please provide at least one form of input (text, voice, or image)")
			case errors.Is(err, domain.ErrRequestFailed):
				fmt.Fprintln(c.out, "! failed to get recommendations, please try again")
			default:
				fmt.Fprintf(c.out, "! %v\n", err)
			}
			return
		}
		fmt.Fprintln(c.out, "\n"+c.renderDisplayed())
	}()
	return "thinking...", nil
}

func (c *Console) dictate(ctx context.Context) (string, error) {
	if !c.Composer.SpeechAvailable() {
		return "voice input is not available in this runtime", nil
	}
	if err := c.Composer.Dictate(ctx); err != nil {
		return "", err
	}
	return "transcript: " + c.Composer.Text(), nil
}

func (c *Console) selectSession(arg string) (string, error) {
	s, err := c.resolve(arg)
	if err != nil {
		return "", err
	}
	c.Sessions.SelectSession(s.ID)
	return "selected " + sessionTitle(s), nil
}

func (c *Console) deleteSession(arg string) (string, error) {
	s, err := c.resolve(arg)
	if err != nil {
		return "", err
	}
	c.Sessions.DeleteSession(s.ID)
	return "deleted " + sessionTitle(s), nil
}

func (c *Console) setFarm(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", fmt.Errorf("usage: /farm <1|2>")
	}
	if err := c.Sessions.SetFarm(model.Farm(n)); err != nil {
		return "", err
	}
	return "farm: " + c.Sessions.Farm().Label(), nil
}

// resolve accepts either a 1-based sidebar index or a session id.
func (c *Console) resolve(arg string) (*model.Session, error) {
	sessions := c.Sessions.Sessions()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(sessions) {
			return nil, fmt.Errorf("no session %d", n)
		}
		return sessions[n-1], nil
	}
	for _, s := range sessions {
		if s.ID == arg {
			return s, nil
		}
	}
	return nil, fmt.Errorf("session %q: %w", arg, domain.ErrNotFound)
}

func (c *Console) renderSidebar() string {
	sessions := c.Sessions.Sessions()
	if len(sessions) == 0 {
		return "no sessions yet, type a message to start one"
	}
	active := c.Sessions.ActiveSession()
	var b strings.Builder
	for i, s := range sessions {
		marker := "  "
		if active != nil && active.ID == s.ID {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%d) %s (%d messages)\n", marker, i+1, sessionTitle(s), len(s.Messages))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Console) renderDisplayed() string {
	rec := c.Sessions.Displayed()
	if rec == nil {
		return "no recommendation to show yet"
	}
	return RenderRecommendation(rec)
}

// RenderRecommendation formats the structured result the way the
// recommendation panel lays it out: reply, primary method and cost,
// benefits, field factors, the two alternatives, then the tillage window.
func RenderRecommendation(rec *model.Recommendation) string {
	var b strings.Builder
	if rec.ResponseText != "" {
		b.WriteString(rec.ResponseText + "\n\n")
	}
	b.WriteString("Tillage Recommendations\n")
	fmt.Fprintf(&b, "  Primary: %s (%s per acre)\n", rec.Primary.Label, rec.Primary.CostString())
	if len(rec.Benefits) > 0 {
		b.WriteString("  Benefits:\n")
		for _, benefit := range rec.Benefits {
			b.WriteString("    - " + benefit + "\n")
		}
	}
	if len(rec.FieldFactors) > 0 {
		b.WriteString("  Field-Specific Factors:\n")
		for _, f := range rec.FieldFactors {
			b.WriteString("    " + f.String() + "\n")
		}
	}
	for i, alt := range rec.Alternatives {
		fmt.Fprintf(&b, "  Alternative %d: %s (%s per acre)\n", i+1, alt.Label, alt.CostString())
	}
	if rec.Window != nil {
		fmt.Fprintf(&b, "  Tillage Window: fall %s, spring %s\n", rec.Window.FallDate, rec.Window.SpringDate)
		if rec.Window.Rationale != "" {
			b.WriteString("    " + rec.Window.Rationale + "\n")
		}
	}
	if rec.Summary != "" {
		b.WriteString("  " + rec.Summary + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func sessionTitle(s *model.Session) string {
	if s.Title == "" {
		return usecase.DefaultSessionTitle
	}
	if len(s.Title) > 48 {
		return s.Title[:48] + "..."
	}
	return s.Title
}

const helpText = `commands:
  /new              start a new session
  /list             list sessions (* marks active)
  /select <n|id>    switch session and restore its last recommendation
  /delete <n|id>    delete a session
  /farm <1|2>       choose farm context (1 Illinois, 2 North Dakota)
  /image <path>     attach a field image (jpeg/jpg/png, max 5 MiB)
  /clear-image      drop the staged image
  /speech           dictate into the pending text
  /theme            toggle light/dark theme preference
  /sidebar          toggle sidebar collapse preference
  /show             re-print the current recommendation
  /quit             exit
anything else is sent as field information.`
