// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validate is the shared validation pass run by strict forms before a
request is dispatched.

	err := validate.Fields(checks)
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		// verr.Field is the first offending field
	}

Checks are evaluated in slice order, so the reported field is stable across
runs. Each check must be present; numeric checks must also not be NaN.
*/
package validate
