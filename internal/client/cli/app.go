package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dmitrijs2005/mailcal/internal/calendar"
	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/client/config"
	"github.com/dmitrijs2005/mailcal/internal/client/identity"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/printers"
	"github.com/dmitrijs2005/mailcal/internal/client/resource"
	"github.com/dmitrijs2005/mailcal/internal/client/services"
	"github.com/dmitrijs2005/mailcal/internal/common"
	"github.com/dmitrijs2005/mailcal/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App is the running dashboard: backend client, local cache, resources,
// mutation services and the terminal it talks to.
type App struct {
	config  *config.Config
	log     logging.Logger
	loc     *time.Location
	now     func() time.Time
	out     io.Writer
	reader  *bufio.Reader
	printer *printers.Printer

	client client.Client
	repos  *client.Repositories
	tokens *identity.StaticSource

	health          *resource.Resource[models.Health]
	emails          *resource.Emails
	history         *resource.History
	events          *resource.Resource[[]models.CalendarEvent]
	todos           *resource.Resource[[]models.Todo]
	eventCandidates *resource.Resource[[]models.EventCandidate]
	todoCandidates  *resource.Resource[[]models.TodoCandidate]

	account      services.AccountService
	eventService services.EventService
	todoService  services.TodoService
	candidates   services.CandidateService
	emailService services.EmailService

	mu              sync.Mutex
	mode            Mode
	userID          string
	settings        *resource.Resource[models.Settings]
	settingsService services.SettingsService
	selected        civil.Date
	viewing         civil.Date
}

// NewApp builds an App from cfg: the HTTP client (backed by the in-memory
// mock when cfg.MockMode is set), the local cache and every resource.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	tokens, err := identity.NewStaticSource(cfg.IDToken, cfg.DevMode)
	if err != nil {
		return nil, fmt.Errorf("identity token: %w", err)
	}

	opts := []client.Option{
		client.WithTimeout(cfg.RequestTimeout),
		client.WithTokenSource(tokens),
		client.WithLogger(log),
	}
	if cfg.MockMode {
		log.Info(ctx, "using mock backend")
		opts = append(opts, client.WithTransport(client.NewMockTransport(time.Now())))
	}
	hc, err := client.NewHTTPClient(cfg.APIBaseURL, opts...)
	if err != nil {
		return nil, err
	}

	path, err := cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("cache path: %w", err)
	}
	repos, err := client.InitDatabase(ctx, path)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", path, "error", err)
		return nil, err
	}

	return newApp(cfg, hc, repos, tokens, log, loc, os.Stdin, os.Stdout), nil
}

func newApp(cfg *config.Config, c client.Client, repos *client.Repositories, tokens *identity.StaticSource,
	log logging.Logger, loc *time.Location, in io.Reader, out io.Writer) *App {

	a := &App{
		config:  cfg,
		log:     log,
		loc:     loc,
		now:     time.Now,
		out:     out,
		reader:  bufio.NewReader(in),
		printer: printers.New(out, loc),
		client:  c,
		repos:   repos,
		tokens:  tokens,
	}

	ropts := []resource.Option{
		resource.WithLogger(log),
		resource.WithClock(func() time.Time { return a.now() }),
	}
	a.health = resource.NewHealth(c, ropts...)
	a.emails = resource.NewEmails(c, cfg.EmailLimit, ropts...)
	a.history = resource.NewHistory(c, cfg.HistoryLimit, ropts...)
	a.events = resource.NewEvents(c, ropts...)
	a.todos = resource.NewTodos(c, ropts...)
	a.eventCandidates = resource.NewEventCandidates(c, ropts...)
	a.todoCandidates = resource.NewTodoCandidates(c, ropts...)
	a.health.Subscribe(a.trackHealth)

	a.account = services.NewAccountService(c, tokens, repos.Metadata, log)
	a.eventService = services.NewEventService(c, a.events, log, nil)
	a.todoService = services.NewTodoService(c, a.todos, log, nil)
	a.candidates = services.NewCandidateService(c, services.CandidateResources{
		EventCandidates: a.eventCandidates,
		TodoCandidates:  a.todoCandidates,
		Events:          a.events,
		Todos:           a.todos,
	}, log, nil)
	a.emailService = services.NewEmailService(c, a.history, a.eventCandidates, a.todoCandidates, log, nil)

	today := a.today()
	a.selected = today
	a.viewing = civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	a.bindUser(common.AnonymousUser)
	return a
}

// bindUser points the settings resource and service at userID.
func (a *App) bindUser(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.settings != nil && a.userID == userID {
		return
	}
	if a.settings != nil {
		a.settings.Close()
	}
	a.userID = userID
	a.settings = resource.NewSettings(a.repos.Settings, userID, resource.WithLogger(a.log))
	a.settingsService = services.NewSettingsService(a.repos.Settings, userID, a.settings, a.log, nil)
}

func (a *App) userSettings() (*resource.Resource[models.Settings], services.SettingsService) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings, a.settingsService
}

func (a *App) today() civil.Date {
	return calendar.DateIn(a.now(), a.loc)
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) getStatus() string {
	a.mu.Lock()
	user, mode := a.userID, a.mode
	a.mu.Unlock()

	s := ""
	if user != "" && user != common.AnonymousUser {
		s = user + " "
	}
	if mode != "" {
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores the remembered identity, loads every resource, starts the
// background loops and blocks in the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if err := a.account.Restore(ctx); err != nil {
		a.log.Warn(ctx, "restore identity", "error", err)
	}
	a.bindUser(a.account.UserID())

	fmt.Fprintln(a.out, "Welcome to mailcal (type 'help' for commands)")
	a.ping(ctx)
	if err := a.refreshAll(ctx); err != nil {
		a.printer.Error(err.Error())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if a.config.RefreshCron != "" {
		stop, err := a.StartRefreshScheduler(ctx, a.config.RefreshCron)
		if err != nil {
			return err
		}
		defer stop()
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) close() {
	if err := a.client.Close(); err != nil {
		a.log.Warn(context.Background(), "close client", "error", err)
	}
	if err := a.repos.Close(); err != nil {
		a.log.Warn(context.Background(), "close cache", "error", err)
	}
}

func (a *App) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_ = a.health.Refetch(ctx)
}

// trackHealth follows the health resource: a settled fetch with an error
// means offline, one with data means online.
func (a *App) trackHealth(st resource.State[models.Health]) {
	switch {
	case st.Loading:
	case st.Err != "":
		a.setMode(context.Background(), ModeOffline)
	case st.Data != nil:
		a.setMode(context.Background(), ModeOnline)
	}
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// loaded returns r's data, fetching it first when nothing has been loaded
// yet. Stale data is returned with a notice when the last fetch failed.
func loaded[T any](ctx context.Context, a *App, r *resource.Resource[T]) (T, error) {
	st := r.State()
	if st.Data == nil {
		if err := r.Fetch(ctx); err != nil {
			var zero T
			return zero, err
		}
		st = r.State()
	}
	if st.Data == nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", r.Name(), resource.ErrNotLoaded)
	}
	if st.Err != "" {
		a.printer.Error(fmt.Sprintf("showing cached %s from %s: %s",
			r.Name(), st.Fetched.In(a.loc).Format("2006-01-02 15:04"), st.Err))
	}
	return *st.Data, nil
}
