package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/patric-chuzhbe/userdir/internal/client"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

// App is the terminal session.
type App struct {
	state *client.State
	in    *prompter
	out   io.Writer
}

// NewApp builds a session reading commands from in. Prompts are shown only
// when interactive is set.
func NewApp(state *client.State, in io.Reader, out io.Writer, interactive bool) *App {
	return &App{
		state: state,
		in: &prompter{
			reader:      bufio.NewReader(in),
			out:         out,
			interactive: interactive,
		},
		out: out,
	}
}

// PrintNotifier writes notifications as "[level] message" lines.
func PrintNotifier(out io.Writer) client.Notifier {
	return client.NotifierFunc(func(level client.Level, message string) {
		fmt.Fprintf(out, "[%s] %s\n", level, message)
	})
}

// Run loads the directory, shows the first page and serves commands until
// exit or end of input. A failed load has already been notified; the
// session goes on with an empty list.
func (a *App) Run(ctx context.Context) {
	_ = a.state.Load(ctx)
	a.List()

	runREPL(ctx, a, a.in)
}

// List renders the current page.
func (a *App) List() {
	visible := a.state.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tEMAIL\tAGE\tGENDER\tSTATUS\tHOBBIES")
	for i, usr := range visible {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			usr.Name,
			usr.Email,
			formatAge(usr.Age),
			usr.Gender,
			status(usr.IsActive),
			strings.Join(usr.Hobbies, ", "),
		)
	}
	_ = w.Flush()

	fmt.Fprintf(a.out, "Page %d of %d (%d users)\n", a.state.Page(), a.state.TotalPages(), len(a.state.Filtered()))
}

func (a *App) Next() {
	a.state.NextPage()
	a.List()
}

func (a *App) Prev() {
	a.state.PrevPage()
	a.List()
}

func (a *App) GoTo(page int) {
	a.state.SetPage(page)
	a.List()
}

func (a *App) Search(text string) {
	f := a.state.Filters()
	f.Search = text
	a.state.SetFilters(f)
	a.List()
}

func (a *App) FilterGender(value string) error {
	f := a.state.Filters()
	if strings.EqualFold(value, "all") {
		f.Gender = ""
	} else {
		gender, ok := models.ParseGender(value)
		if !ok {
			return fmt.Errorf("unknown gender %q", value)
		}
		f.Gender = gender
	}
	a.state.SetFilters(f)
	a.List()

	return nil
}

func (a *App) FilterStatus(value string) error {
	f := a.state.Filters()
	switch strings.ToLower(value) {
	case "all":
		f.IsActive = nil
	case "active":
		active := true
		f.IsActive = &active
	case "inactive":
		active := false
		f.IsActive = &active
	default:
		return fmt.Errorf("unknown status %q", value)
	}
	a.state.SetFilters(f)
	a.List()

	return nil
}

func (a *App) Add(ctx context.Context) error {
	a.state.OpenCreateForm()
	return a.fillAndSubmit(ctx)
}

func (a *App) Edit(ctx context.Context, ref string) error {
	usr, err := a.resolve(ref)
	if err != nil {
		return err
	}

	if err := a.state.OpenEditForm(usr.ID); err != nil {
		return err
	}
	return a.fillAndSubmit(ctx)
}

func (a *App) Delete(ctx context.Context, ref string) error {
	usr, err := a.resolve(ref)
	if err != nil {
		return err
	}

	var promptErr error
	_, err = a.state.Delete(ctx, usr.ID, func(target models.User) bool {
		ok, err := a.in.Confirm(fmt.Sprintf("Are you sure you want to delete %s <%s>?", target.Name, target.Email))
		promptErr = err
		return ok
	})
	if promptErr != nil {
		return promptErr
	}
	if err != nil {
		return err
	}
	a.List()

	return nil
}

// fillAndSubmit asks for the form fields until the form checks pass or
// input ends, then submits.
func (a *App) fillAndSubmit(ctx context.Context) error {
	defer a.state.CloseForm()

	data := a.state.Form().Data
	for {
		filled, err := a.in.editForm(data)
		if err != nil {
			return err
		}
		data = filled

		if err := data.Validate(); err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		break
	}

	a.state.SetFormData(data)
	if err := a.state.Submit(ctx); err != nil {
		return err
	}
	a.List()

	return nil
}

var errBadRef = errors.New("no such user")

// resolve accepts a row number of the current page or a user id.
func (a *App) resolve(ref string) (models.User, error) {
	if row, err := strconv.Atoi(ref); err == nil {
		visible := a.state.Visible()
		if row < 1 || row > len(visible) {
			return models.User{}, fmt.Errorf("%w: no row %d on this page", errBadRef, row)
		}
		return visible[row-1], nil
	}

	usr, ok := a.state.Find(ref)
	if !ok {
		return models.User{}, fmt.Errorf("%w: %s", errBadRef, ref)
	}

	return usr, nil
}

func status(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}
