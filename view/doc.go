// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package view selects which predictor form is shown.

The Controller starts on Home. Select mounts a fresh form for a domain, or
keeps the current one when that domain is already active. Home unmounts it.

Submissions are not cancelled on navigation. Callers check Mounted before
rendering a late result so abandoned forms stay silent.
*/
package view
