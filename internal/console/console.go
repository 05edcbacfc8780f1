package console

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

const DefaultDebounce = 300 * time.Millisecond

const (
	MessageLoadFailed   = "Failed to load tasks"
	MessageCreateFailed = "Failed to create task"
)

var ErrEmptyTitle = errors.New("title is required")

type Form struct {
	Title       string
	Description string
	Status      constants.TaskStatus
}

func emptyForm() Form {
	return Form{Status: constants.StatusPending}
}

// Snapshot is what a front end renders. Tasks holds only the visible tasks.
type Snapshot struct {
	Tasks        []model.Task
	Loading      bool
	Error        string
	NoResults    bool
	Form         Form
	Query        string
	StatusFilter string
}

type Option func(*Console)

func WithDebounce(d time.Duration) Option {
	return func(c *Console) { c.debounce = d }
}

// WithOnChange registers a callback run after every fetch settles. It may
// be called from the debounce goroutine.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Console) { c.onChange = fn }
}

// Console holds the view state of the task console: the last fetched list,
// the creation form and the search inputs. Every mutation is followed by a
// full re-fetch; nothing is updated optimistically.
type Console struct {
	client   *Client
	debounce time.Duration
	onChange func(Snapshot)

	mu           sync.Mutex
	tasks        []model.Task
	loading      bool
	errMsg       string
	form         Form
	query        string
	statusFilter string
	timer        *time.Timer
}

func New(client *Client, opts ...Option) *Console {
	c := &Console{
		client:   client,
		debounce: DefaultDebounce,
		form:     emptyForm(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the whole collection, ignoring the search inputs' activity
// rule.
func (c *Console) Load(ctx context.Context) error {
	return c.Fetch(ctx)
}

func (c *Console) Fetch(ctx context.Context) error {
	c.mu.Lock()
	params := RequestParams(c.query, c.statusFilter)
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	tasks, err := c.client.ListTasks(ctx, params)

	c.mu.Lock()
	if err != nil {
		c.errMsg = MessageLoadFailed
	} else {
		c.tasks = tasks
	}
	c.loading = false
	c.mu.Unlock()

	c.notify()
	return err
}

func (c *Console) SetForm(title, description string, status constants.TaskStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = Form{Title: title, Description: description, Status: status}
}

// SetQuery stores the search text and schedules a search once the text has
// been stable for the debounce interval.
func (c *Console) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		if c.searchActive() {
			_ = c.Fetch(context.Background())
		}
	})
}

// SetStatusFilter changes the dropdown and searches right away when there is
// anything to search for. An empty status means "all".
func (c *Console) SetStatusFilter(ctx context.Context, status string) error {
	c.mu.Lock()
	c.statusFilter = status
	c.mu.Unlock()

	if !c.searchActive() {
		return nil
	}
	return c.Fetch(ctx)
}

// Search is the explicit search button.
func (c *Console) Search(ctx context.Context) error {
	if !c.searchActive() {
		return nil
	}
	return c.Fetch(ctx)
}

func (c *Console) Create(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	if strings.TrimSpace(form.Title) == "" {
		c.mu.Unlock()
		return ErrEmptyTitle
	}
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	if _, err := c.client.CreateTask(ctx, form.Title, form.Description, string(form.Status)); err != nil {
		c.mu.Lock()
		c.errMsg = MessageCreateFailed
		c.loading = false
		c.mu.Unlock()
		c.notify()
		return err
	}

	c.mu.Lock()
	c.form = emptyForm()
	c.statusFilter = string(form.Status)
	c.query = ""
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// Toggle flips completion and moves the status along with it in a single
// update. A transport failure skips the re-fetch.
func (c *Console) Toggle(ctx context.Context, task model.Task) error {
	if task.ID == "" {
		return nil
	}

	completed := !task.Completed
	status := constants.StatusPending
	if completed {
		status = constants.StatusCompleted
	}

	err := c.client.SetCompleted(ctx, task.ID, completed, string(status))
	return c.refetchAfter(ctx, err)
}

func (c *Console) Delete(ctx context.Context, task model.Task) error {
	if task.ID == "" {
		return nil
	}

	err := c.client.DeleteTask(ctx, task.ID)
	return c.refetchAfter(ctx, err)
}

func (c *Console) refetchAfter(ctx context.Context, err error) error {
	var statusErr *StatusError
	if err != nil && !errors.As(err, &statusErr) {
		return err
	}
	if fetchErr := c.Fetch(ctx); fetchErr != nil {
		return fetchErr
	}
	return err
}

func (c *Console) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := Visible(c.tasks, c.query, c.statusFilter)
	return Snapshot{
		Tasks:        visible,
		Loading:      c.loading,
		Error:        c.errMsg,
		NoResults:    c.activeLocked() && len(visible) == 0 && !c.loading,
		Form:         c.form,
		Query:        c.query,
		StatusFilter: c.statusFilter,
	}
}

// Close stops a pending debounced search.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Console) searchActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *Console) activeLocked() bool {
	return strings.TrimSpace(c.query) != "" || c.statusFilter != ""
}

func (c *Console) notify() {
	if c.onChange != nil {
		c.onChange(c.Snapshot())
	}
}
