package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubApp struct {
	calls []string
}

func (s *stubApp) List()              { s.calls = append(s.calls, "list") }
func (s *stubApp) Next()              { s.calls = append(s.calls, "next") }
func (s *stubApp) Prev()              { s.calls = append(s.calls, "prev") }
func (s *stubApp) GoTo(page int)      { s.calls = append(s.calls, "page "+strings.Repeat("I", page)) }
func (s *stubApp) Search(text string) { s.calls = append(s.calls, "search:"+text) }

func (s *stubApp) FilterGender(value string) error {
	s.calls = append(s.calls, "gender:"+value)
	return nil
}

func (s *stubApp) FilterStatus(value string) error {
	s.calls = append(s.calls, "status:"+value)
	return nil
}

func (s *stubApp) Add(ctx context.Context) error {
	s.calls = append(s.calls, "add")
	return nil
}

func (s *stubApp) Edit(ctx context.Context, ref string) error {
	s.calls = append(s.calls, "edit:"+ref)
	return nil
}

func (s *stubApp) Delete(ctx context.Context, ref string) error {
	s.calls = append(s.calls, "delete:"+ref)
	return nil
}

func TestRunREPLDispatch(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"",
		"l",
		"LIST",
		"next",
		"prev",
		"page 3",
		"page x",
		"search  Ann Lee ",
		"search",
		"gender female",
		"status",
		"status active",
		"add",
		"edit 2",
		"delete 5d3c",
		"dance",
		"quit",
		"list",
	}, "\n") + "\n"
	p, out := newPrompter(input, false)
	stub := &stubApp{}

	runREPL(context.Background(), stub, p)

	assert.Equal(t, []string{
		"list",
		"list",
		"next",
		"prev",
		"page III",
		"search:Ann Lee",
		"search:",
		"gender:female",
		"status:active",
		"add",
		"edit:2",
		"delete:5d3c",
	}, stub.calls)

	assert.Contains(t, out.String(), "Available commands:")
	assert.Contains(t, out.String(), "Usage: page N")
	assert.Contains(t, out.String(), "Usage: status all|active|inactive")
	assert.Contains(t, out.String(), "Unknown command: dance")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPLStopsOnEOF(t *testing.T) {
	p, _ := newPrompter("list\n", false)
	stub := &stubApp{}

	runREPL(context.Background(), stub, p)

	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestRunREPLStopsOnCancel(t *testing.T) {
	p, _ := newPrompter("list\n", false)
	stub := &stubApp{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runREPL(ctx, stub, p)

	assert.Empty(t, stub.calls)
}
