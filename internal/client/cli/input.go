package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/patric-chuzhbe/userdir/internal/client"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

var errAborted = errors.New("input closed")

// prompter reads answers line by line. Prompts are written only when the
// input is a terminal.
type prompter struct {
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
}

// GetSimpleText prints prompt and reads one trimmed line. If EOF occurs
// after some input was read, the partial line is returned.
func (p *prompter) GetSimpleText(prompt string) (string, error) {
	if p.interactive {
		if _, err := fmt.Fprint(p.out, prompt+"\n> "); err != nil {
			return "", err
		}
	}

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errAborted
		}
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// Confirm accepts y or yes in any case.
func (p *prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.GetSimpleText(prompt + " [y/N]")
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// editForm asks for every field. An empty answer keeps the current value.
func (p *prompter) editForm(data client.FormData) (client.FormData, error) {
	var err error

	if data.Name, err = p.keepOr(fmt.Sprintf("Name [%s]", data.Name), data.Name); err != nil {
		return data, err
	}
	if data.Email, err = p.keepOr(fmt.Sprintf("Email [%s]", data.Email), data.Email); err != nil {
		return data, err
	}

	for {
		answer, err := p.GetSimpleText(fmt.Sprintf("Age %d-%d, - to clear [%s]", client.MinAge, client.MaxAge, formatAge(data.Age)))
		if err != nil {
			return data, err
		}
		if answer == "" {
			break
		}
		if answer == "-" {
			data.Age = nil
			break
		}
		age, convErr := strconv.Atoi(answer)
		if convErr != nil {
			p.say("Age must be a number")
			continue
		}
		data.Age = &age
		break
	}

	for {
		answer, err := p.GetSimpleText(fmt.Sprintf("Gender Male/Female/Other [%s]", data.Gender))
		if err != nil {
			return data, err
		}
		if answer == "" {
			break
		}
		gender, ok := models.ParseGender(answer)
		if !ok {
			p.say("Unknown gender:", answer)
			continue
		}
		data.Gender = gender
		break
	}

	for {
		answer, err := p.GetSimpleText(fmt.Sprintf("Hobbies, comma separated, - for none (%s) [%s]",
			strings.Join(client.HobbyOptions, ", "), strings.Join(data.Hobbies, ", ")))
		if err != nil {
			return data, err
		}
		if answer == "" {
			break
		}
		if answer == "-" {
			data.Hobbies = []string{}
			break
		}
		hobbies, unknown := parseHobbies(answer)
		if unknown != "" {
			p.say("Unknown hobby:", unknown)
			continue
		}
		data.Hobbies = hobbies
		break
	}

	if data.Bio, err = p.keepOr(fmt.Sprintf("Bio [%s]", data.Bio), data.Bio); err != nil {
		return data, err
	}

	for {
		answer, err := p.GetSimpleText(fmt.Sprintf("Active y/n [%s]", yesNo(data.IsActive)))
		if err != nil {
			return data, err
		}
		switch strings.ToLower(answer) {
		case "":
		case "y", "yes":
			data.IsActive = true
		case "n", "no":
			data.IsActive = false
		default:
			p.say("Please answer y or n")
			continue
		}
		break
	}

	return data, nil
}

func (p *prompter) keepOr(prompt, current string) (string, error) {
	answer, err := p.GetSimpleText(prompt)
	if err != nil {
		return current, err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

func (p *prompter) say(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

// parseHobbies maps a comma separated answer onto the hobby options,
// ignoring case. It returns the first entry that is not an option.
func parseHobbies(answer string) ([]string, string) {
	hobbies := []string{}
	seen := map[string]bool{}

	for _, part := range strings.Split(answer, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		matched := ""
		for _, option := range client.HobbyOptions {
			if strings.EqualFold(option, part) {
				matched = option
				break
			}
		}
		if matched == "" {
			return nil, part
		}
		if !seen[matched] {
			seen[matched] = true
			hobbies = append(hobbies, matched)
		}
	}

	return hobbies, ""
}

func formatAge(age *int) string {
	if age == nil {
		return "-"
	}
	return strconv.Itoa(*age)
}

func yesNo(v bool) string {
	if v {
		return "y"
	}
	return "n"
}
