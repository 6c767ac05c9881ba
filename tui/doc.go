// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tui is a bubbletea front end over the view controller.

Home lists the predictors; picking one mounts its form. Submissions run as
tea commands so the program stays responsive, and a form that is already in
flight ignores further submits. Results that settle after their form was
unmounted are dropped.
*/
package tui
