// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "errors"

// ErrNilConfig is returned by [NewApp] when no configuration is given.
var ErrNilConfig = errors.New("client: nil config")
