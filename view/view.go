// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package view

import (
	"fmt"
	"sync"

	"github.com/krle1978/health-predictor-ai/forms"
	"github.com/krle1978/health-predictor-ai/models"
)

// State is the view currently shown. Home is the zero value.
type State string

const Home State = "home"

// StateFor returns the state that shows a domain's form
func StateFor(d models.Domain) State { return State(d) }

// Card is a selector button visible from the current state
type Card struct {
	Target State
	Title  string
}

// Controller tracks which view is active and owns the mounted form
type Controller struct {
	mu     sync.Mutex
	state  State
	active *forms.Form
}

func NewController() *Controller {
	return &Controller{state: Home}
}

// Select switches to a domain's form. Selecting the active domain keeps the
// mounted form; any other domain mounts a fresh one.
func (c *Controller) Select(d models.Domain) (*forms.Form, error) {
	spec, ok := forms.Lookup(d)
	if !ok {
		return nil, fmt.Errorf("unknown domain %q", d)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateFor(d) && c.active != nil {
		return c.active, nil
	}
	c.state = StateFor(d)
	c.active = forms.New(spec)
	return c.active, nil
}

// Home returns to the landing view and unmounts the active form
func (c *Controller) Home() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Home
	c.active = nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active returns the active domain, or false on Home
func (c *Controller) Active() (models.Domain, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Home {
		return "", false
	}
	return models.Domain(c.state), true
}

// Form returns the mounted form, or nil on Home
func (c *Controller) Form() *forms.Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Mounted reports whether f is still the active form
func (c *Controller) Mounted(f *forms.Form) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f != nil && c.active == f
}

// Cards lists the selectors visible from the current state: every domain on
// Home, otherwise Home followed by the other domains.
func (c *Controller) Cards() []Card {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	var cards []Card
	if state != Home {
		cards = append(cards, Card{Target: Home, Title: "Home"})
	}
	for _, spec := range forms.Specs() {
		if StateFor(spec.Domain) == state {
			continue
		}
		cards = append(cards, Card{Target: StateFor(spec.Domain), Title: spec.Title})
	}
	return cards
}
