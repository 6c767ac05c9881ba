// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/krle1978/health-predictor-ai/forms"
	"github.com/krle1978/health-predictor-ai/models"
	"github.com/krle1978/health-predictor-ai/presenter"
	"github.com/krle1978/health-predictor-ai/view"
)

const (
	colorBrand   lipgloss.Color = "#3B82F6"
	colorFocus   lipgloss.Color = "#b4befe"
	colorMuted   lipgloss.Color = "#6c7086"
	colorDanger  lipgloss.Color = "#f38ba8"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorWarning lipgloss.Color = "#f9e2af"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBrand).MarginBottom(1)
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	labelStyle   = lipgloss.NewStyle().Width(28)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	statusStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted)
	resultStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	highRiskText = lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
	lowRiskText  = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.form == nil {
		return m.viewHome()
	}
	return m.viewForm()
}

func (m *Model) viewHome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Health Predictor"))
	b.WriteString("\n")
	b.WriteString("Choose a predictor:\n\n")

	for i, card := range m.ctrl.Cards() {
		line := fmt.Sprintf("%d. %s", i+1, card.Title)
		if i == m.cursor {
			b.WriteString(focusStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("↑/↓ move • enter select • 1-4 jump • q quit"))
	return b.String()
}

func (m *Model) viewForm() string {
	spec := m.form.Spec()

	var b strings.Builder
	b.WriteString(titleStyle.Render(spec.Title))
	b.WriteString("\n")

	for i, field := range spec.Fields {
		label := labelStyle.Render(field.Label)
		value := m.fieldValue(field)
		if i == m.cursor {
			b.WriteString(focusStyle.Render("> ") + label + focusStyle.Render(value))
		} else {
			b.WriteString("  " + label + value)
		}
		b.WriteString("\n")
	}

	derived := m.form.Derived()
	for _, d := range spec.Derived {
		n := derived[d.Name]
		if !n.Valid {
			continue
		}
		text := fmt.Sprintf("%s: %.1f", d.Label, n.Value)
		if d.Name == "BMI" {
			text += " (" + forms.BMICategory(n.Value) + ")"
		}
		b.WriteString("  " + mutedStyle.Render(text) + "\n")
	}

	button := "Predict"
	if m.inflight[m.form] || m.form.Submitting() {
		button = "Predicting..."
	}
	if m.cursor == len(spec.Fields) {
		b.WriteString(buttonStyle.BorderForeground(colorFocus).Render(button))
	} else {
		b.WriteString(buttonStyle.Render(button))
	}
	b.WriteString("\n")

	switch {
	case m.status == "":
	case m.inflight[m.form]:
		b.WriteString(statusStyle.Render(m.status) + "\n")
	default:
		b.WriteString(errorStyle.Render(m.status) + "\n")
	}
	if r := m.renderResult(spec.Domain, m.form.Result()); r != "" {
		b.WriteString(r + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render(m.footer()))
	return b.String()
}

func (m *Model) fieldValue(field forms.Field) string {
	switch field.Kind {
	case forms.KindFile:
		if m.imagePath == "" {
			return mutedStyle.Render("type a file path")
		}
		return m.imagePath
	case forms.KindEnum:
		raw := m.form.Value(field.Name)
		for _, o := range field.Options {
			if o.Value == raw {
				return "‹ " + o.Label + " ›"
			}
		}
		return mutedStyle.Render("‹ select ›")
	default:
		return m.form.Value(field.Name) + "_"
	}
}

// renderResult draws the presented result; empty when nothing has settled
func (m *Model) renderResult(domain models.Domain, r models.Result) string {
	d := presenter.Present(domain, r)
	switch d.Risk {
	case models.RiskHigh:
		return resultStyle.BorderForeground(colorDanger).Render(
			highRiskText.Render(d.Message) + "\nConfidence: " + d.Confidence)
	case models.RiskLow:
		return resultStyle.BorderForeground(colorSuccess).Render(
			lowRiskText.Render(d.Message) + "\nConfidence: " + d.Confidence)
	default:
		if d.Message == "" {
			return ""
		}
		return errorStyle.Render(d.Message)
	}
}

func (m *Model) footer() string {
	parts := []string{"tab/↑/↓ move", "←/→ choose", "enter/ctrl+s predict"}
	for _, card := range m.ctrl.Cards() {
		if card.Target == view.Home {
			parts = append(parts, "esc home")
			continue
		}
		for i, d := range models.Domains {
			if view.StateFor(d) == card.Target {
				parts = append(parts, fmt.Sprintf("alt+%d %s", i+1, string(d)))
			}
		}
	}
	return strings.Join(parts, " • ")
}
