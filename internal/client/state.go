package client

import (
	"context"
	"errors"
	"sync"

	"github.com/patric-chuzhbe/userdir/internal/logger"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

var (
	// ErrUnknownUser is returned for ids the loaded list does not contain.
	ErrUnknownUser = errors.New("no such user in the list")

	// ErrFormClosed is returned by Submit when no form is open.
	ErrFormClosed = errors.New("form is not open")
)

type usersAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ConfirmFunc asks the user to approve deleting usr.
type ConfirmFunc func(usr models.User) bool

// Form is the add/edit dialog. Editing is nil for the add form.
type Form struct {
	Open    bool
	Editing *models.User
	Data    FormData
}

// State is the client view model. It is safe for concurrent use.
type State struct {
	mu       sync.RWMutex
	api      usersAPI
	notifier Notifier
	users    []models.User
	filters  Filters
	page     int
	form     Form
}

func NewState(api usersAPI, notifier Notifier) *State {
	if notifier == nil {
		notifier = NotifierFunc(func(Level, string) {})
	}

	return &State{
		api:      api,
		notifier: notifier,
		users:    []models.User{},
		page:     1,
	}
}

// Load fetches the whole directory. It is meant to run once at startup.
func (s *State) Load(ctx context.Context) error {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		logger.Log.Debugw("loading users failed", "error", err)
		s.notifier.Notify(LevelError, msgLoadFailed)
		return err
	}

	s.mu.Lock()
	s.users = users
	s.page = 1
	s.mu.Unlock()

	return nil
}

// Users returns a copy of the loaded list.
func (s *State) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.User{}, s.users...)
}

func (s *State) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filters
}

// SetFilters replaces the filters and goes back to the first page.
func (s *State) SetFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = f
	s.page = 1
}

// Filtered returns the users passing the filters, in list order.
func (s *State) Filtered() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Filter(s.users, s.filters)
}

func (s *State) TotalPages() int {
	return TotalPages(len(s.Filtered()))
}

func (s *State) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.page
}

// SetPage moves to page, clamped to the existing pages. It returns the page set.
func (s *State) SetPage(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page = clampPage(page, TotalPages(len(Filter(s.users, s.filters))))

	return s.page
}

func (s *State) NextPage() int {
	return s.SetPage(s.Page() + 1)
}

func (s *State) PrevPage() int {
	return s.SetPage(s.Page() - 1)
}

// Visible returns the rows of the current page.
func (s *State) Visible() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.User{}, Paginate(Filter(s.users, s.filters), s.page)...)
}

// Find looks a user up in the loaded list.
func (s *State) Find(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, usr := range s.users {
		if usr.ID == id {
			return usr, true
		}
	}

	return models.User{}, false
}

func (s *State) Form() Form {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.form
}

// OpenCreateForm opens an empty add form.
func (s *State) OpenCreateForm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = Form{Open: true, Data: FormDefaults()}
}

// OpenEditForm opens the edit form prefilled with the user's data.
func (s *State) OpenEditForm(id string) error {
	usr, ok := s.Find(id)
	if !ok {
		return ErrUnknownUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = Form{Open: true, Editing: &usr, Data: FormDataOf(usr)}

	return nil
}

func (s *State) SetFormData(data FormData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form.Data = data
}

func (s *State) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = Form{}
}

// Submit sends the open form. Form checks failing keep the form open and
// send nothing. Otherwise the form is closed whatever the server answers;
// on success the returned record is put into the list.
func (s *State) Submit(ctx context.Context) error {
	form := s.Form()
	if !form.Open {
		return ErrFormClosed
	}

	if err := form.Data.Validate(); err != nil {
		s.notifier.Notify(LevelWarning, msgFormIncorrect)
		return err
	}

	defer s.CloseForm()

	if form.Editing != nil {
		updated, err := s.api.UpdateUser(ctx, form.Editing.ID, form.Data.Fields())
		if err != nil {
			logger.Log.Debugw("update failed", "id", form.Editing.ID, "error", err)
			s.notifier.Notify(LevelError, msgUpdateFailed)
			return err
		}

		s.mu.Lock()
		for i := range s.users {
			if s.users[i].ID == form.Editing.ID {
				s.users[i] = *updated
				break
			}
		}
		s.mu.Unlock()

		s.notifier.Notify(LevelSuccess, msgUpdated)
		return nil
	}

	created, err := s.api.CreateUser(ctx, form.Data.Fields())
	if err != nil {
		logger.Log.Debugw("create failed", "error", err)
		s.notifier.Notify(LevelError, msgAddFailed)
		return err
	}

	s.mu.Lock()
	s.users = append([]models.User{*created}, s.users...)
	s.mu.Unlock()

	s.notifier.Notify(LevelSuccess, msgAdded)
	return nil
}

// Delete removes the user after confirm approves it. It reports whether a
// request was sent.
func (s *State) Delete(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	usr, ok := s.Find(id)
	if !ok {
		return false, ErrUnknownUser
	}

	if confirm != nil && !confirm(usr) {
		return false, nil
	}

	if err := s.api.DeleteUser(ctx, id); err != nil {
		logger.Log.Debugw("delete failed", "id", id, "error", err)
		s.notifier.Notify(LevelError, msgDeleteFailed)
		return true, err
	}

	s.mu.Lock()
	kept := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	s.page = clampPage(s.page, TotalPages(len(Filter(s.users, s.filters))))
	s.mu.Unlock()

	s.notifier.Notify(LevelSuccess, msgDeleted)
	return true, nil
}

func clampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	return page
}
