// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krle1978/health-predictor-ai/forms"
	"github.com/krle1978/health-predictor-ai/models"
	"github.com/krle1978/health-predictor-ai/validate"
	"github.com/krle1978/health-predictor-ai/view"
)

// submittedMsg reports a settled submission for form
type submittedMsg struct {
	form *forms.Form
	err  error
}

// Model renders the view controller and the mounted form
type Model struct {
	ctx    context.Context
	ctrl   *view.Controller
	sender forms.Sender

	form      *forms.Form
	cursor    int
	imagePath string
	status    string
	inflight  map[*forms.Form]bool

	width    int
	quitting bool
}

// New builds a model starting on Home
func New(ctx context.Context, sender forms.Sender) *Model {
	return &Model{
		ctx:      ctx,
		ctrl:     view.NewController(),
		sender:   sender,
		inflight: make(map[*forms.Form]bool),
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case submittedMsg:
		delete(m.inflight, msg.form)
		if !m.ctrl.Mounted(msg.form) {
			slog.Debug("dropping result for unmounted form", "domain", msg.form.Spec().Domain)
			return m, nil
		}
		m.status = ""
		if msg.err != nil && !isValidation(msg.err) {
			m.status = msg.err.Error()
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.form == nil {
			return m.updateHome(msg)
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m *Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.ctrl.Cards()
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(cards)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(cards) {
			m.open(cards[m.cursor].Target)
		}
	default:
		if d, ok := domainKey(msg.String(), ""); ok {
			m.open(view.StateFor(d))
		}
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	spec := m.form.Spec()
	rows := len(spec.Fields) + 1

	if d, ok := domainKey(msg.String(), "alt+"); ok {
		m.open(view.StateFor(d))
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.open(view.Home)
	case "up", "shift+tab":
		m.cursor = (m.cursor + rows - 1) % rows
	case "down", "tab":
		m.cursor = (m.cursor + 1) % rows
	case "ctrl+s":
		return m, m.submit()
	case "enter":
		if m.cursor == len(spec.Fields) {
			return m, m.submit()
		}
		m.cursor++
	case "left", "right":
		if m.cursor < len(spec.Fields) {
			m.cycle(spec.Fields[m.cursor], msg.String() == "right")
		}
	case "backspace":
		if m.cursor < len(spec.Fields) {
			m.edit(spec.Fields[m.cursor], func(s string) string {
				if s == "" {
					return s
				}
				r := []rune(s)
				return string(r[:len(r)-1])
			})
		}
	default:
		if msg.Type == tea.KeyRunes && !msg.Alt && m.cursor < len(spec.Fields) {
			m.typeRunes(spec.Fields[m.cursor], string(msg.Runes))
		}
	}
	return m, nil
}

// open moves the controller to target and resets per-form UI state when a
// different form gets mounted
func (m *Model) open(target view.State) {
	if target == view.Home {
		m.ctrl.Home()
	} else if _, err := m.ctrl.Select(models.Domain(target)); err != nil {
		m.status = err.Error()
		return
	}
	if f := m.ctrl.Form(); f != m.form {
		m.form = f
		m.cursor = 0
		m.imagePath = ""
		m.status = ""
	}
}

func (m *Model) typeRunes(field forms.Field, s string) {
	switch field.Kind {
	case forms.KindEnum:
		for _, o := range field.Options {
			if o.Value == s {
				m.form.UpdateField(field.Name, s)
			}
		}
	default:
		m.edit(field, func(v string) string { return v + s })
	}
}

func (m *Model) edit(field forms.Field, fn func(string) string) {
	if field.Kind == forms.KindFile {
		m.imagePath = fn(m.imagePath)
		return
	}
	m.form.UpdateField(field.Name, fn(m.form.Value(field.Name)))
}

// cycle steps an enum field through its options
func (m *Model) cycle(field forms.Field, forward bool) {
	if field.Kind != forms.KindEnum || len(field.Options) == 0 {
		return
	}
	cur := m.form.Value(field.Name)
	idx := -1
	for i, o := range field.Options {
		if o.Value == cur {
			idx = i
		}
	}
	n := len(field.Options)
	switch {
	case idx < 0 && forward:
		idx = 0
	case idx < 0:
		idx = n - 1
	case forward:
		idx = (idx + 1) % n
	default:
		idx = (idx + n - 1) % n
	}
	m.form.UpdateField(field.Name, field.Options[idx].Value)
}

// submit dispatches the mounted form asynchronously. A form already in
// flight is left alone.
func (m *Model) submit() tea.Cmd {
	f := m.form
	if f == nil || m.inflight[f] || f.Submitting() {
		return nil
	}
	m.inflight[f] = true
	m.status = "Predicting..."

	ctx, sender, path := m.ctx, m.sender, m.imagePath
	return func() tea.Msg {
		if f.Spec().Encoding() == models.EncodingMultipart && path != "" {
			if err := loadImage(f, path); err != nil {
				return submittedMsg{form: f, err: err}
			}
		}
		_, err := f.Submit(ctx, sender)
		return submittedMsg{form: f, err: err}
	}
}

func loadImage(f *forms.Form, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	return f.SetFile(forms.ImageField, models.Attachment{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:        data,
	})
}

// domainKey maps "1".."4" (with prefix) to a domain in selector order
func domainKey(key, prefix string) (models.Domain, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok || (prefix == "" && strings.Contains(key, "+")) {
		return "", false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > len(models.Domains) {
		return "", false
	}
	return models.Domains[n-1], true
}

// isValidation reports errors already stored on the form as its result
func isValidation(err error) bool {
	var verr *validate.ValidationError
	return errors.As(err, &verr)
}

// Run starts the program on the alternate screen
func Run(ctx context.Context, sender forms.Sender) error {
	p := tea.NewProgram(New(ctx, sender), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
